package zerologx

import (
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/rs/zerolog"
)

// ZeroLogger 将 zerolog.Logger 适配为 logx.Loggerx
type ZeroLogger struct {
	logger *zerolog.Logger
}

// NewZeroLogger 初始化参考:
//
//	logger := zerolog.New(os.Stdout).Level(zerolog.DebugLevel).With().CallerWithSkipFrameCount(4).Timestamp().Logger()
//	l := zerologx.NewZeroLogger(&logger)
func NewZeroLogger(l *zerolog.Logger) logx.Loggerx {
	return &ZeroLogger{logger: l}
}

func (z *ZeroLogger) Debug(msg string, fields ...logx.Field) {
	z.write(z.logger.Debug(), msg, fields)
}

func (z *ZeroLogger) Info(msg string, fields ...logx.Field) {
	z.write(z.logger.Info(), msg, fields)
}

func (z *ZeroLogger) Warn(msg string, fields ...logx.Field) {
	z.write(z.logger.Warn(), msg, fields)
}

func (z *ZeroLogger) Error(msg string, fields ...logx.Field) {
	z.write(z.logger.Error(), msg, fields)
}

func (z *ZeroLogger) With(fields ...logx.Field) logx.Loggerx {
	zc := z.logger.With()
	for _, f := range fields {
		zc = zc.Interface(f.Key, f.Value)
	}
	l := zc.Logger()
	return &ZeroLogger{logger: &l}
}

// GetZerolog 返回底层 zerolog，供 gorm 等需要原生 logger 的场景
func (z *ZeroLogger) GetZerolog() *zerolog.Logger {
	return z.logger
}

// write 按字段类型选择 zerolog 的强类型方法，未知类型走 Interface
func (z *ZeroLogger) write(e *zerolog.Event, msg string, fields []logx.Field) {
	if e == nil { // 级别被过滤
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			e = e.AnErr(f.Key, v)
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case time.Time:
			e = e.Time(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}
