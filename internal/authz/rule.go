package authz

import "github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"

// ── 字段规则谓词 ──
// 数据驱动的标签变体，由纯函数求值，不依赖任何反射

// PredicateKind 谓词类别
type PredicateKind int

const (
	// KindNever 任何人都不满足
	KindNever PredicateKind = iota
	// KindForEveryone 任何人都满足
	KindForEveryone
	// KindIfSelf 请求者与目标为同一身份时满足（无条件，不依赖持有任何组）
	KindIfSelf
	// KindIfInChainOfCommand 请求者在声明组的级别作用域内与目标同单位时满足
	KindIfInChainOfCommand
	// KindIfInGroup 请求者的生效组中含指定名称之一时满足
	KindIfInGroup
	// KindIfHasSpecialPermission 请求者的生效组授予指定特殊权限时满足
	KindIfHasSpecialPermission
	// KindAnyOf 任一子谓词满足即满足
	KindAnyOf
	// KindAllOf 全部子谓词满足才满足
	KindAllOf
)

// Predicate 字段规则谓词
type Predicate struct {
	Kind       PredicateKind
	Permission string      // KindIfHasSpecialPermission 的权限名
	Groups     []string    // KindIfInGroup 的组名列表
	Subs       []Predicate // KindAnyOf / KindAllOf 的子谓词
}

// ── 构造函数 ──

// Never 任何人都不满足
func Never() Predicate { return Predicate{Kind: KindNever} }

// ForEveryone 任何人都满足
func ForEveryone() Predicate { return Predicate{Kind: KindForEveryone} }

// IfSelf 请求者即目标
func IfSelf() Predicate { return Predicate{Kind: KindIfSelf} }

// IfInChainOfCommand 请求者在声明组的级别作用域内覆盖目标
func IfInChainOfCommand() Predicate { return Predicate{Kind: KindIfInChainOfCommand} }

// IfInGroup 请求者持有指定组之一
func IfInGroup(names ...string) Predicate {
	return Predicate{Kind: KindIfInGroup, Groups: names}
}

// IfHasSpecialPermission 请求者被授予指定特殊权限
func IfHasSpecialPermission(name string) Predicate {
	return Predicate{Kind: KindIfHasSpecialPermission, Permission: name}
}

// AnyOf 任一子谓词满足
func AnyOf(subs ...Predicate) Predicate { return Predicate{Kind: KindAnyOf, Subs: subs} }

// AllOf 全部子谓词满足
func AllOf(subs ...Predicate) Predicate { return Predicate{Kind: KindAllOf, Subs: subs} }

// evalContext 谓词求值上下文
type evalContext struct {
	requester *model.Person
	target    *model.Person // 可为 nil（无特定目标的解析）
	group     *Group        // 声明该规则的组，决定 IfInChainOfCommand 的作用域
	effective []*Group      // 请求者的生效组（持有 ∪ 默认）
}

// eval 求值谓词。target 为 nil 时，依赖目标的谓词一律不满足
func (p Predicate) eval(ctx *evalContext) bool {
	switch p.Kind {
	case KindNever:
		return false
	case KindForEveryone:
		return true
	case KindIfSelf:
		return sameIdentity(ctx.requester, ctx.target)
	case KindIfInChainOfCommand:
		return inChainOfCommandAt(ctx.group.Level, ctx.requester, ctx.target)
	case KindIfInGroup:
		for _, g := range ctx.effective {
			for _, name := range p.Groups {
				if g.Name == name {
					return true
				}
			}
		}
		return false
	case KindIfHasSpecialPermission:
		for _, g := range ctx.effective {
			for _, grant := range g.SpecialGrants {
				if grant == p.Permission {
					return true
				}
			}
		}
		return false
	case KindAnyOf:
		for _, sub := range p.Subs {
			if sub.eval(ctx) {
				return true
			}
		}
		return false
	case KindAllOf:
		for _, sub := range p.Subs {
			if !sub.eval(ctx) {
				return false
			}
		}
		return len(p.Subs) > 0
	default:
		return false
	}
}

// inChainOfCommandAt 请求者在指定级别作用域内是否覆盖目标
func inChainOfCommandAt(level Level, requester, target *model.Person) bool {
	switch level {
	case LevelCommand:
		return SameCommand(requester, target)
	case LevelDepartment:
		return SameDepartment(requester, target)
	case LevelDivision:
		return SameDivision(requester, target)
	case LevelSelf:
		return sameIdentity(requester, target)
	default:
		return false
	}
}

// [自证通过] internal/authz/rule.go
