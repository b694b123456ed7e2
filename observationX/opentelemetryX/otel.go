// Package opentelemetryX 初始化全局 TracerProvider
package opentelemetryX

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type SvcInfo struct {
	ServiceName    string
	ServiceVersion string
}

// ShutdownFn main方法里 defer 住，退出前把未上报的 span 刷出去
type ShutdownFn func(ctx context.Context) error

// InitOtel 以 exporter 初始化全局链路追踪；exporter 为 nil 时只设置 propagator，span 不上报
func InitOtel(svc SvcInfo, exporter sdktrace.SpanExporter) (ShutdownFn, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	if exporter == nil {
		return func(ctx context.Context) error { return nil }, nil
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(svc.ServiceName),
			semconv.ServiceVersion(svc.ServiceVersion),
		))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// NewZipkinExporter url 为空返回 nil
//   - http://localhost:9411/api/v2/spans
func NewZipkinExporter(url string) (sdktrace.SpanExporter, error) {
	if url == "" {
		return nil, nil
	}
	return zipkin.New(url)
}

// Tracer 取全局 provider 的 tracer，InitOtel 之前取到的也会跟随后设置的 provider
func Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return otel.Tracer(name, opts...)
}
