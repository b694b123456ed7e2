// Package zaplogx 将 zap.Logger 适配为 logx.Loggerx
package zaplogx

import (
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"go.uber.org/zap"
)

type ZapLogger struct {
	l *zap.Logger
}

// NewZapLogger log.driver=zap 时使用
//
//	zl, _ := zap.NewProduction()
//	l := zaplogx.NewZapLogger(zl)
func NewZapLogger(l *zap.Logger) logx.Loggerx {
	return &ZapLogger{l: l}
}

func (z *ZapLogger) Debug(msg string, fields ...logx.Field) {
	z.l.Debug(msg, toZap(fields)...)
}

func (z *ZapLogger) Info(msg string, fields ...logx.Field) {
	z.l.Info(msg, toZap(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields ...logx.Field) {
	z.l.Warn(msg, toZap(fields)...)
}

func (z *ZapLogger) Error(msg string, fields ...logx.Field) {
	z.l.Error(msg, toZap(fields)...)
}

func (z *ZapLogger) With(fields ...logx.Field) logx.Loggerx {
	return &ZapLogger{l: z.l.With(toZap(fields)...)}
}

// toZap 常用类型走 zap 的强类型构造，其余走 zap.Any
func toZap(fields []logx.Field) []zap.Field {
	res := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			res = append(res, zap.NamedError(f.Key, v))
		case string:
			res = append(res, zap.String(f.Key, v))
		case int:
			res = append(res, zap.Int(f.Key, v))
		case int64:
			res = append(res, zap.Int64(f.Key, v))
		case []string:
			res = append(res, zap.Strings(f.Key, v))
		case time.Duration:
			res = append(res, zap.Duration(f.Key, v))
		case time.Time:
			res = append(res, zap.Time(f.Key, v))
		default:
			res = append(res, zap.Any(f.Key, v))
		}
	}
	return res
}
