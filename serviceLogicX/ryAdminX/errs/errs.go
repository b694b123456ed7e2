// Package errs 任务调度与数据权限的错误类型，调用方用 errors.As 区分
package errs

import "fmt"

// ValidationError 任务必填字段缺失或 cron 表达式非法
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败[%s]: %s", e.Field, e.Msg)
}

func NewValidation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// NotFoundError 修改/变更状态的任务不存在
type NotFoundError struct {
	Resource string
	Id       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s不存在, id: %d", e.Resource, e.Id)
}

func NewNotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, Id: id}
}

// InvocationError 调用目标格式错误，或未注册的命名空间/方法
type InvocationError struct {
	Target string
	Msg    string
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Msg, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Msg, e.Target)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func NewInvocation(target, msg string) error {
	return &InvocationError{Target: target, Msg: msg}
}

// BackendError 调度队列调用失败
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("调度队列%s失败: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func NewBackend(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

// DirectoryError 查询用户/角色失败
type DirectoryError struct {
	UserId int64
	Err    error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("查询用户角色失败, userId: %d: %v", e.UserId, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

func NewDirectory(userId int64, err error) error {
	return &DirectoryError{UserId: userId, Err: err}
}
