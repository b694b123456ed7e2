// Package redisPrometheusx 基于prometheus监控redis命令耗时
package redisPrometheusx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var _ redis.Hook = (*PrometheusHook)(nil)

// PrometheusHook 标签：命令名、是否成功、错误类型
type PrometheusHook struct {
	histogram *prometheus.HistogramVec
}

// NewPrometheusHook 重复注册时复用已注册的 collector
//   - client.AddHook(redisPrometheusx.NewPrometheusHook(opts))
func NewPrometheusHook(opts prometheus.HistogramOpts) *PrometheusHook {
	h := prometheus.NewHistogramVec(opts, []string{"cmd", "success", "error_type"})
	if err := prometheus.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		h = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return &PrometheusHook{histogram: h}
}

func (p *PrometheusHook) DialHook(next redis.DialHook) redis.DialHook {
	return next // 连接阶段不监控
}

func (p *PrometheusHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		p.observe(strings.ToLower(cmd.Name()), err, time.Since(start))
		return err
	}
}

// ProcessPipelineHook 整条 pipeline 记一次，命令名为 pipeline
func (p *PrometheusHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		p.observe("pipeline", err, time.Since(start))
		return err
	}
}

func (p *PrometheusHook) observe(cmd string, err error, d time.Duration) {
	success, errorType := "true", "none"
	switch {
	case errors.Is(err, redis.Nil):
		// 空结果不算失败【队列空轮询时大量出现】
		errorType = "key_not_found"
	case err != nil:
		success, errorType = "false", "other"
	}
	p.histogram.WithLabelValues(cmd, success, errorType).Observe(d.Seconds())
}
