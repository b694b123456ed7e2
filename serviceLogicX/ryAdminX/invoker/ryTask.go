package invoker

import (
	"context"
	"fmt"

	"gitee.com/hgg_test/ry_admin/logx"
)

const RyTaskNamespace = "ryTask"

// RegisterRyTask 内置示例任务：ryNoParams、ryParams、ryMultipleParams
func RegisterRyTask(r *Registry, l logx.Loggerx) *Registry {
	l = l.With(logx.String("namespace", RyTaskNamespace))
	return r.
		Register(RyTaskNamespace, "ryNoParams", func(ctx context.Context, args ...any) (Result, error) {
			l.Info("执行无参方法")
			return Result{Success: true, Message: "执行无参方法成功"}, nil
		}).
		Register(RyTaskNamespace, "ryParams", func(ctx context.Context, args ...any) (Result, error) {
			p := argAt(args, 0)
			l.Info(fmt.Sprintf("执行有参方法：%v", p))
			return Result{Success: true, Message: fmt.Sprintf("执行有参方法成功，参数: %v", p)}, nil
		}).
		Register(RyTaskNamespace, "ryMultipleParams", func(ctx context.Context, args ...any) (Result, error) {
			s, b, lg, d, i := argAt(args, 0), argAt(args, 1), argAt(args, 2), argAt(args, 3), argAt(args, 4)
			l.Info(fmt.Sprintf("执行多参方法： 字符串类型%v，布尔类型%v，长整型%v，浮点型%v，整形%v", s, b, lg, d, i))
			return Result{
				Success: true,
				Message: "执行多参方法成功",
				Params:  map[string]any{"s": s, "b": b, "l": lg, "d": d, "i": i},
			}, nil
		})
}

// argAt 缺省参数按空串处理
func argAt(args []any, idx int) any {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}
