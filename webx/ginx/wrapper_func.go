package ginx

import (
	"errors"
	"net/http"
	"strconv"

	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	vector *prometheus.CounterVec
	L      logx.Loggerx = logx.NewNopLogger()
)

func SetLogger(l logx.Loggerx) {
	if l != nil {
		L = l
	}
}

// InitCounter 按业务 code 计数，重复调用复用已注册的 collector
func InitCounter(opt prometheus.CounterOpts) {
	v := prometheus.NewCounterVec(opt, []string{"code"})
	if err := prometheus.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		v = are.ExistingCollector.(*prometheus.CounterVec)
	}
	vector = v
}

func count(res Result) {
	if vector != nil {
		vector.WithLabelValues(strconv.Itoa(res.Code)).Inc()
	}
}

func logBizErr(ctx *gin.Context, err error) {
	if err != nil {
		L.Error("处理业务逻辑出错",
			logx.String("path", ctx.Request.URL.Path),
			logx.String("route", ctx.FullPath()),
			logx.Error(err))
	}
}

// WrapBody 绑定请求体/查询参数后执行 bizFn
func WrapBody[Req any](bizFn func(ctx *gin.Context, req Req) (Result, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req Req
		if err := ctx.ShouldBind(&req); err != nil {
			L.Warn("输入错误", logx.String("path", ctx.Request.URL.Path), logx.Error(err))
			ctx.JSON(http.StatusBadRequest, Fail(http.StatusBadRequest, "请求参数错误"))
			return
		}
		res, err := bizFn(ctx, req)
		count(res)
		logBizErr(ctx, err)
		ctx.JSON(http.StatusOK, res)
	}
}

// WrapClaims 从上下文取 "user" 声明，取不到返回 401
func WrapClaims[Claims any](bizFn func(ctx *gin.Context, uc Claims) (Result, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uc, ok := claimsFrom[Claims](ctx)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		res, err := bizFn(ctx, uc)
		count(res)
		logBizErr(ctx, err)
		ctx.JSON(http.StatusOK, res)
	}
}

func WrapBodyAndClaims[Req any, Claims any](bizFn func(ctx *gin.Context, req Req, uc Claims) (Result, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req Req
		if err := ctx.ShouldBind(&req); err != nil {
			L.Warn("输入错误", logx.String("path", ctx.Request.URL.Path), logx.Error(err))
			ctx.JSON(http.StatusBadRequest, Fail(http.StatusBadRequest, "请求参数错误"))
			return
		}
		uc, ok := claimsFrom[Claims](ctx)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		res, err := bizFn(ctx, req, uc)
		count(res)
		logBizErr(ctx, err)
		ctx.JSON(http.StatusOK, res)
	}
}

func Wrap(fn func(ctx *gin.Context) (Result, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res, err := fn(ctx)
		count(res)
		logBizErr(ctx, err)
		ctx.JSON(http.StatusOK, res)
	}
}

func claimsFrom[Claims any](ctx *gin.Context) (Claims, bool) {
	var zero Claims
	val, ok := ctx.Get("user")
	if !ok {
		return zero, false
	}
	uc, ok := val.(Claims)
	return uc, ok
}
