package ratelimitx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/jwtx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	limited bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Limit(ctx context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.limited, f.err
}

func TestBuilder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testCases := []struct {
		name     string
		lim      *fakeLimiter
		uid      int64
		wantCode int
		wantKey  string
	}{
		{name: "放行", lim: &fakeLimiter{}, wantCode: http.StatusOK, wantKey: "ip-limiter:192.0.2.1"},
		{name: "限流", lim: &fakeLimiter{limited: true}, wantCode: http.StatusTooManyRequests, wantKey: "ip-limiter:192.0.2.1"},
		{name: "按用户限流", lim: &fakeLimiter{}, uid: 7, wantCode: http.StatusOK, wantKey: "ip-limiter:uid:7"},
		{name: "redis 出错放行", lim: &fakeLimiter{err: errors.New("down")}, wantCode: http.StatusOK, wantKey: "ip-limiter:192.0.2.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := gin.New()
			if tc.uid > 0 {
				server.Use(func(ctx *gin.Context) {
					ctx.Set("user", &jwtx.UserClaims{Uid: tc.uid})
				})
			}
			server.Use(NewBuilder(tc.lim, logx.NewNopLogger()).Build())
			server.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			resp := httptest.NewRecorder()
			server.ServeHTTP(resp, req)

			assert.Equal(t, tc.wantCode, resp.Code)
			assert.Equal(t, []string{tc.wantKey}, tc.lim.keys)
		})
	}
}
