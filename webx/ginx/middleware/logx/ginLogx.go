// Package middleware gin 访问日志
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/gin-gonic/gin"
)

// 请求体最多记录 1KB
const maxBodyLog = 1024

type GinLogx struct {
	l            logx.Loggerx
	allowReqBody bool
}

func NewGinLogx(l logx.Loggerx) *GinLogx {
	return &GinLogx{l: l}
}

// AllowReqBody 允许打印请求体
func (g *GinLogx) AllowReqBody() *GinLogx {
	g.allowReqBody = true
	return g
}

func (g *GinLogx) Build() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if len(path) > 1024 { // 防止伪造过长 path 撑大日志
			path = path[:1024]
		}
		fields := []logx.Field{
			logx.String("method", c.Request.Method),
			logx.String("path", path),
			logx.String("query", c.Request.URL.RawQuery),
			logx.String("client_ip", c.ClientIP()),
		}
		if g.allowReqBody && c.Request.Body != nil {
			body, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			if len(body) > maxBodyLog {
				body = body[:maxBodyLog]
			}
			fields = append(fields, logx.String("req_body", string(body)))
		}

		c.Next()

		status := c.Writer.Status()
		fields = append(fields, logx.Int("status", status), logx.Int64("duration-ms", time.Since(start).Milliseconds()))
		switch {
		case status >= http.StatusInternalServerError:
			g.l.Error("HTTP请求", fields...)
		case status >= http.StatusBadRequest:
			g.l.Warn("HTTP请求", fields...)
		default:
			g.l.Info("HTTP请求", fields...)
		}
	}
}
