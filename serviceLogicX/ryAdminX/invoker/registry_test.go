package invoker

import (
	"context"
	"errors"
	"testing"

	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RyTask(t *testing.T) {
	r := RegisterRyTask(NewRegistry(), logx.NewNopLogger())
	ctx := context.Background()

	res, err := r.Invoke(ctx, "ryTask.ryNoParams")
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: "执行无参方法成功"}, res)

	res, err = r.Invoke(ctx, "ryTask.ryParams('ry')")
	require.NoError(t, err)
	assert.Equal(t, "执行有参方法成功，参数: ry", res.Message)

	res, err = r.Invoke(ctx, "ryTask.ryMultipleParams('ry', true, 2000L, 316.50D, 100)")
	require.NoError(t, err)
	assert.Equal(t, "执行多参方法成功", res.Message)
	assert.Equal(t, map[string]any{"s": "ry", "b": true, "l": float64(2000), "d": 316.5, "i": float64(100)}, res.Params)
}

func TestRegistry_Errors(t *testing.T) {
	r := RegisterRyTask(NewRegistry(), logx.NewNopLogger())
	boom := errors.New("boom")
	r.Register("demo", "fail", func(ctx context.Context, args ...any) (Result, error) {
		return Result{}, boom
	})
	ctx := context.Background()

	testCases := []struct {
		name       string
		target     string
		wantTarget string
		wantMsg    string
	}{
		{name: "格式错误", target: "not a target", wantTarget: "not a target", wantMsg: "无效的调用目标"},
		{name: "未知命名空间", target: "otherTask.run", wantTarget: "otherTask", wantMsg: "不支持的任务类"},
		{name: "未知方法", target: "ryTask.nope", wantTarget: "nope", wantMsg: "方法不存在"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Invoke(ctx, tc.target)
			var ie *errs.InvocationError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tc.wantTarget, ie.Target)
			assert.Equal(t, tc.wantMsg, ie.Msg)
		})
	}

	_, err := r.Invoke(ctx, "demo.fail")
	assert.ErrorIs(t, err, boom)
}
