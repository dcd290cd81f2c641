package errors

import "fmt"

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
)

// ========== 业务错误类型 ==========

// Kind 业务错误类别
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindNotFound           Kind = "NotFound"
	KindDuplicateKey       Kind = "DuplicateKey"
	KindDuplicateLink      Kind = "DuplicateLink"
	KindRoleInUse          Kind = "RoleInUse"
	KindResourceInUse      Kind = "ResourceInUse"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthorized       Kind = "Unauthorized"
	KindForbidden          Kind = "Forbidden"
)

// AppError 带类别的业务错误，服务层返回，由处理层统一映射为响应
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func New(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}

// HTTPCode 业务错误类别对应的错误码
func (e *AppError) HTTPCode() int {
	switch e.Kind {
	case KindValidation, KindInvalidCredentials:
		return CodeInvalidParam
	case KindNotFound:
		return CodeNotFound
	case KindDuplicateKey, KindDuplicateLink, KindRoleInUse, KindResourceInUse:
		return CodeConflict
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	default:
		return CodeServerError
	}
}
