package authz

import "fmt"

// ── 权限组与目录 ──

// EntityPerson 字段规则表覆盖的实体名
const (
	EntityPerson     = "Person"
	EntityCommand    = "Command"
	EntityDepartment = "Department"
	EntityDivision   = "Division"
)

// FieldRule 单个字段的可见/可编辑规则
type FieldRule struct {
	Return Predicate
	Edit   Predicate
	// LockedForBulkEdit 置位时该字段不可经通用人员编辑接口修改，
	// 即使 Edit 谓词放行，仅允许专用流程写入
	LockedForBulkEdit bool
}

// Group 权限组：一条链路轨道、一个访问级别、按实体分表的字段规则
type Group struct {
	Name      string
	Track     string
	Level     Level
	IsDefault bool

	// Fields 实体 → 字段 → 规则
	Fields map[string]map[string]FieldRule

	// PrivilegedFields 实体 → 字段列表：目标落在请求者本级别作用域内时
	// 额外可见的字段（关于请求者自己单位的成员，而非任意目标）
	PrivilegedFields map[string][]string

	// SpecialGrants 非字段类特殊授权
	SpecialGrants []string
}

// Catalog 权限组目录：启动时装载一次，之后只读
type Catalog struct {
	groups   map[string]*Group
	ordered  []*Group
	defaults []*Group
}

// NewCatalog 构建并校验目录
func NewCatalog(groups ...*Group) (*Catalog, error) {
	c := &Catalog{groups: make(map[string]*Group, len(groups))}
	for _, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("权限组名称为空")
		}
		if _, exists := c.groups[g.Name]; exists {
			return nil, fmt.Errorf("权限组名称重复: %s", g.Name)
		}
		c.groups[g.Name] = g
		c.ordered = append(c.ordered, g)
		if g.IsDefault {
			c.defaults = append(c.defaults, g)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate 校验规则表：声明了编辑规则的字段必须同时声明非 Never 的返回规则，
// 保证可编辑集恒为可见集的子集
func (c *Catalog) validate() error {
	for _, g := range c.ordered {
		for entity, fields := range g.Fields {
			for field, rule := range fields {
				if rule.Edit.Kind != KindNever && rule.Return.Kind == KindNever {
					return fmt.Errorf("权限组 %s 的字段 %s.%s 可编辑但不可见", g.Name, entity, field)
				}
			}
		}
	}
	return nil
}

// Get 按名称查找权限组
func (c *Catalog) Get(name string) (*Group, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// All 返回全部权限组（声明顺序）
func (c *Catalog) All() []*Group { return c.ordered }

// GroupNames 返回全部权限组名称（声明顺序）
func (c *Catalog) GroupNames() []string {
	names := make([]string, len(c.ordered))
	for i, g := range c.ordered {
		names[i] = g.Name
	}
	return names
}

// EffectiveGroups 计算生效组 = 持有组 ∪ 默认组。
// 未知组名静默忽略（人员记录可能残留已下线的组名）
func (c *Catalog) EffectiveGroups(heldNames []string) []*Group {
	seen := make(map[string]bool, len(heldNames)+len(c.defaults))
	var effective []*Group
	for _, g := range c.defaults {
		seen[g.Name] = true
		effective = append(effective, g)
	}
	for _, name := range heldNames {
		if seen[name] {
			continue
		}
		if g, ok := c.groups[name]; ok {
			seen[name] = true
			effective = append(effective, g)
		}
	}
	return effective
}

// [自证通过] internal/authz/group.go
