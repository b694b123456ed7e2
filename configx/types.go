package configx

import "io"

// DefaultConfig 默认配置项，配置文件缺失该项时生效
type DefaultConfig struct {
	Key string
	Val any
}

// ConfigIn 基于viper框架的配置服务
type ConfigIn interface {
	// InitViperLocal 读取单个本地文件
	//   - filePath是文件路径 精确到文件名，如：config/dev.yaml，可被命令行 --config 覆盖
	//   - defaultConfig是默认配置项【viper.SetDefault("mysql.dsn", "root:root@tcp(localhost:3306)/ry")】
	InitViperLocal(filePath string, defaultConfig ...DefaultConfig) error

	// InitViperLocalWatch 读取单个本地文件并监听文件变化，变化后回调 onChange
	InitViperLocalWatch(filePath string, onChange func(), defaultConfig ...DefaultConfig) error

	// InitViperReader 从 reader 读取配置【测试、嵌入式配置使用】，fileType eg: yaml、json
	InitViperReader(fileType string, in io.Reader, defaultConfig ...DefaultConfig) error

	// Get 获取配置项原始值
	Get(key string) any

	// GetUnmarshalKey 将 key 下的配置反序列化到 rawVal，key 为空时反序列化整个配置
	GetUnmarshalKey(key string, rawVal any) error
}
