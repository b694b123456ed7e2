// Package ratelimitx gin 限流中间件，登录用户按 uid 限流，未登录按 IP
package ratelimitx

import (
	"fmt"
	"net/http"

	"gitee.com/hgg_test/ry_admin/limiter"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/jwtx"
	"github.com/gin-gonic/gin"
)

type Builder struct {
	prefix  string
	limiter limiter.Limiter
	l       logx.Loggerx
}

func NewBuilder(limiter limiter.Limiter, l logx.Loggerx) *Builder {
	return &Builder{prefix: "ip-limiter", limiter: limiter, l: l}
}

func (b *Builder) Prefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// Build 放在 jwt 中间件之后才能按 uid 限流；redis 出错时放行
func (b *Builder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := b.key(ctx)
		limited, err := b.limiter.Limit(ctx.Request.Context(), key)
		if err != nil {
			b.l.Error("限流判断失败，放行", logx.String("key", key), logx.Error(err))
			ctx.Next()
			return
		}
		if limited {
			ctx.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		ctx.Next()
	}
}

func (b *Builder) key(ctx *gin.Context) string {
	if v, ok := ctx.Get("user"); ok {
		if uc, ok := v.(*jwtx.UserClaims); ok {
			return fmt.Sprintf("%s:uid:%d", b.prefix, uc.Uid)
		}
	}
	return fmt.Sprintf("%s:%s", b.prefix, ctx.ClientIP())
}
