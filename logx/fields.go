package logx

import "time"

// Error key 固定为 error，各适配器按错误类型输出
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

func Int64(key string, val int64) Field {
	return Field{Key: key, Value: val}
}

func String(key string, val string) Field {
	return Field{Key: key, Value: val}
}

func Strings(key string, val []string) Field {
	return Field{Key: key, Value: val}
}

func TimeTime(key string, val time.Time) Field {
	return Field{Key: key, Value: val}
}

func TimeDuration(key string, val time.Duration) Field {
	return Field{Key: key, Value: val}
}

func Any(key string, val any) Field {
	return Field{Key: key, Value: val}
}
