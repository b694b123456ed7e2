// Package prometheusX /metrics 暴露
package prometheusX

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler 默认 registry 的指标
func Handler() http.Handler {
	return promhttp.Handler()
}

// RegisterGin 在 gin 上挂载 /metrics
func RegisterGin(server gin.IRoutes, path string) {
	if path == "" {
		path = "/metrics"
	}
	server.GET(path, gin.WrapH(Handler()))
}

// NewServer 独立端口暴露指标
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{Addr: addr, Handler: mux}
}

// MustRegisterOrGet 已注册时返回已有的 collector
func MustRegisterOrGet[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C)
		}
		panic(err)
	}
	return c
}
