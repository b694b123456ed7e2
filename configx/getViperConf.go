package configx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// configValue 读取配置项，泛型约束支持的类型
type configValue interface {
	~int | ~int64 | ~float64 | ~string | ~bool | ~[]string
}

// GetUnmarshalStruct 从配置文件读取到的值，反序列化为结构体
//   - key是配置项的 key，如 "mysql"
//   - rawVal 存储转换结果，要传指针
func GetUnmarshalStruct(cfg ConfigIn, key string, rawVal any) error {
	return cfg.GetUnmarshalKey(key, rawVal)
}

// Get 从 ConfigIn 安全获取指定类型的配置值，类型不匹配时尽量做兼容转换，失败返回零值
func Get[T configValue](cfg ConfigIn, key string) T {
	return convertToType[T](cfg.Get(key))
}

func convertToType[T configValue](raw any) T {
	var zero T
	if raw == nil {
		return zero
	}
	if v, ok := raw.(T); ok {
		return v
	}

	switch any(zero).(type) {
	case time.Duration:
		switch val := raw.(type) {
		case string:
			if d, err := time.ParseDuration(val); err == nil {
				return any(d).(T)
			}
		case int:
			return any(time.Duration(val)).(T)
		case int64:
			return any(time.Duration(val)).(T)
		}
	case int:
		switch val := raw.(type) {
		case float64:
			return any(int(val)).(T)
		case int64:
			return any(int(val)).(T)
		case string:
			if i, err := strconv.Atoi(val); err == nil {
				return any(i).(T)
			}
		}
	case int64:
		switch val := raw.(type) {
		case int:
			return any(int64(val)).(T)
		case float64:
			return any(int64(val)).(T)
		case string:
			if i, err := strconv.ParseInt(val, 10, 64); err == nil {
				return any(i).(T)
			}
		}
	case float64:
		switch val := raw.(type) {
		case int:
			return any(float64(val)).(T)
		case int64:
			return any(float64(val)).(T)
		case string:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return any(f).(T)
			}
		}
	case string:
		return any(fmt.Sprintf("%v", raw)).(T)
	case bool:
		switch val := raw.(type) {
		case string:
			switch strings.ToLower(val) {
			case "true", "1", "on", "yes":
				return any(true).(T)
			case "false", "0", "off", "no":
				return any(false).(T)
			}
		case int:
			return any(val != 0).(T)
		case int64:
			return any(val != 0).(T)
		}
	case []string:
		switch val := raw.(type) {
		case []any:
			res := make([]string, len(val))
			for i, item := range val {
				res[i] = fmt.Sprintf("%v", item)
			}
			return any(res).(T)
		case string:
			if val == "" {
				return any([]string{}).(T)
			}
			parts := strings.Split(val, ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			return any(parts).(T)
		}
	}
	return zero
}
