package logx

// Loggerx 日志抽象接口（依赖抽象），业务只依赖该接口，具体实现见 zerologx / zaplogx
//
//go:generate mockgen -source=./types.go -package=logxmocks -destination=mocks/logx.mock.go Loggerx
type Loggerx interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With 返回携带固定字段的子日志，如 With(logx.String("module", "job"))
	With(fields ...Field) Loggerx
}

type Field struct {
	Key   string
	Value any
}

// NopLogger 什么都不输出，测试或关闭日志时使用
type NopLogger struct{}

func NewNopLogger() Loggerx { return NopLogger{} }

func (NopLogger) Debug(string, ...Field)  {}
func (NopLogger) Info(string, ...Field)   {}
func (NopLogger) Warn(string, ...Field)   {}
func (NopLogger) Error(string, ...Field)  {}
func (n NopLogger) With(...Field) Loggerx { return n }
