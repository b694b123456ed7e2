// Package ginPrometheusx gin 接口响应时间与活跃请求数
package ginPrometheusx

import (
	"strconv"
	"time"

	"gitee.com/hgg_test/ry_admin/observationX/prometheusX"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Builder struct {
	Namespace  string // 命名空间
	Subsystem  string // 子系统
	Name       string // 指标名称前缀
	InstanceId string // 实例ID
	Help       string // 指标描述
}

func NewBuilder(b Builder) *Builder {
	return &b
}

// BuildResponseTime 响应时间，单位毫秒
func (b *Builder) BuildResponseTime() gin.HandlerFunc {
	vector := prometheusX.MustRegisterOrGet(prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_resp_time",
		ConstLabels: map[string]string{"instance_id": b.InstanceId},
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
		Help: b.Help,
	}, []string{"method", "pattern", "status"}))

	return func(ctx *gin.Context) {
		start := time.Now()
		defer func() {
			pattern := ctx.FullPath()
			if pattern == "" { // 未命中路由，避免按原始 path 打标签
				pattern = "unknown"
			}
			vector.WithLabelValues(ctx.Request.Method, pattern, strconv.Itoa(ctx.Writer.Status())).
				Observe(float64(time.Since(start).Milliseconds()))
		}()
		ctx.Next()
	}
}

// BuildActiveRequest 活跃请求
func (b *Builder) BuildActiveRequest() gin.HandlerFunc {
	gauge := prometheusX.MustRegisterOrGet(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_active_req",
		ConstLabels: map[string]string{"instance_id": b.InstanceId},
		Help:        b.Help,
	}))
	return func(ctx *gin.Context) {
		gauge.Inc()
		defer gauge.Dec()
		ctx.Next()
	}
}
