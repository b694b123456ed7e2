package viperX

import (
	"io"
	"strings"
	"sync"

	"gitee.com/hgg_test/ry_admin/configx"
	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，RY_MYSQL_DSN 覆盖 mysql.dsn
const EnvPrefix = "RY"

type ViperConfigStr struct {
	Config *viper.Viper
	mutex  sync.RWMutex

	l logx.Loggerx
}

func NewViperConfigStr(l logx.Loggerx) configx.ConfigIn {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &ViperConfigStr{
		Config: v,
		l:      l,
	}
}

// GetViper 获取viper的实例
func (v *ViperConfigStr) GetViper() *viper.Viper {
	return v.Config
}

// InitViperLocal 配置单个文件
//   - filePath是文件路径 精确到文件名，如：config/dev.yaml
func (v *ViperConfigStr) InitViperLocal(filePath string, defaultConfig ...configx.DefaultConfig) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.Config.SetConfigFile(configFile(filePath))
	v.setDefaults(defaultConfig)
	return v.Config.ReadInConfig()
}

// InitViperLocalWatch 配置本地文件并监听文件变化
func (v *ViperConfigStr) InitViperLocalWatch(filePath string, onChange func(), defaultConfig ...configx.DefaultConfig) error {
	if err := v.InitViperLocal(filePath, defaultConfig...); err != nil {
		return err
	}
	// 配置文件变更时，执行回调函数
	v.Config.OnConfigChange(func(in fsnotify.Event) {
		v.l.Warn("本地配置文件发生变更", logx.String("fileName", in.Name), logx.String("op", in.Op.String()))
		if onChange != nil {
			onChange()
		}
	})
	v.Config.WatchConfig()
	return nil
}

func (v *ViperConfigStr) InitViperReader(fileType string, in io.Reader, defaultConfig ...configx.DefaultConfig) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.Config.SetConfigType(fileType)
	v.setDefaults(defaultConfig)
	return v.Config.ReadConfig(in)
}

func (v *ViperConfigStr) Get(key string) any {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.Config.Get(key)
}

func (v *ViperConfigStr) GetUnmarshalKey(key string, rawVal any) error {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	if key == "" {
		return v.Config.Unmarshal(rawVal)
	}
	return v.Config.UnmarshalKey(key, rawVal)
}

func (v *ViperConfigStr) setDefaults(defaultConfig []configx.DefaultConfig) {
	for _, s := range defaultConfig {
		v.Config.SetDefault(s.Key, s.Val)
	}
}

// configFile 命令行 --config 显式指定时优先，否则使用传入路径
func configFile(filePath string) string {
	if pflag.Lookup("config") == nil {
		pflag.String("config", filePath, "配置文件路径")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}
	if f := pflag.Lookup("config"); f != nil && f.Changed {
		return f.Value.String()
	}
	return filePath
}
