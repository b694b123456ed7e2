package invoker

import (
	"context"
	"sync"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
)

// Result 任务方法返回，Message 为空时执行日志使用默认信息
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// HandlerFunc 任务方法，args 为 ParseTarget 解析出的参数
type HandlerFunc func(ctx context.Context, args ...any) (Result, error)

// Registry 命名空间 -> 方法 -> 处理函数，可并发读写
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]map[string]HandlerFunc)}
}

// Register 同名方法重复注册时覆盖
func (r *Registry) Register(namespace, method string, fn HandlerFunc) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.handlers[namespace]
	if !ok {
		ns = make(map[string]HandlerFunc)
		r.handlers[namespace] = ns
	}
	ns[method] = fn
	return r
}

func (r *Registry) lookup(t Target) (HandlerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.handlers[t.Namespace]
	if !ok {
		return nil, errs.NewInvocation(t.Namespace, "不支持的任务类")
	}
	fn, ok := ns[t.Method]
	if !ok {
		return nil, errs.NewInvocation(t.Method, "方法不存在")
	}
	return fn, nil
}

// Invoke 解析并执行调用目标，格式错误或未注册时返回 *errs.InvocationError
func (r *Registry) Invoke(ctx context.Context, invokeTarget string) (Result, error) {
	t, err := ParseTarget(invokeTarget)
	if err != nil {
		return Result{}, err
	}
	fn, err := r.lookup(t)
	if err != nil {
		return Result{}, err
	}
	return fn(ctx, t.Args...)
}
