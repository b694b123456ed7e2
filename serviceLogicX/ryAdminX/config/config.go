package config

import (
	"errors"
	"fmt"
	"time"

	"gitee.com/hgg_test/ry_admin/configx"
	"gitee.com/hgg_test/ry_admin/configx/viperX"
	"gitee.com/hgg_test/ry_admin/logx"
)

const (
	QueueBackendRedis = "redis"
	QueueBackendLocal = "local"

	LogDriverZerolog = "zerolog"
	LogDriverZap     = "zap"
)

// Config 配置结构体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mysql   MysqlConfig   `mapstructure:"mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Queue   QueueConfig   `mapstructure:"queue"`
	JobLog  JobLogConfig  `mapstructure:"job_log"`
	Jwt     JwtConfig     `mapstructure:"jwt"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Trace   TraceConfig   `mapstructure:"trace"`
	Limit   LimitConfig   `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MysqlConfig MySQL配置
type MysqlConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogConfig 日志配置，driver: zerolog | zap
type LogConfig struct {
	Driver string `mapstructure:"driver"`
	Level  string `mapstructure:"level"`
}

// QueueConfig 调度队列，backend: redis 多实例共享 | local 单进程
type QueueConfig struct {
	Backend      string        `mapstructure:"backend"`
	Name         string        `mapstructure:"name"`
	Concurrency  int           `mapstructure:"concurrency"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// LockName 多实例时只有持锁实例展开重复任务
	LockName   string        `mapstructure:"lock_name"`
	LockExpiry time.Duration `mapstructure:"lock_expiry"`
	// LoadGate local 队列系统负载过高时暂停触发
	LoadGate bool `mapstructure:"load_gate"`
}

// JobLogConfig 执行日志异步写入
type JobLogConfig struct {
	Buffer        int           `mapstructure:"buffer"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type JwtConfig struct {
	Key       string        `mapstructure:"key"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
}

// KafkaConfig addrs 为空时不投递执行日志
type KafkaConfig struct {
	Addrs    []string `mapstructure:"addrs"`
	Topic    string   `mapstructure:"topic"`
	ClientId string   `mapstructure:"client_id"`
}

// CacheConfig 用户角色本地缓存，max_items 为 0 不缓存
type CacheConfig struct {
	MaxItems int64         `mapstructure:"max_items"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// TraceConfig zipkin_url 为空时不上报
type TraceConfig struct {
	ServiceName string `mapstructure:"service_name"`
	ZipkinURL   string `mapstructure:"zipkin_url"`
}

// LimitConfig 接口限流，依赖 redis
type LimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Rate     int           `mapstructure:"rate"`
}

// LoadConfig 加载配置文件，命令行 --config 优先
func LoadConfig(filePath string, l logx.Loggerx) (*Config, error) {
	vc := viperX.NewViperConfigStr(l)
	if err := vc.InitViperLocal(filePath); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Parse(vc)
}

// Parse 反序列化、设置默认值并校验
func Parse(cfg configx.ConfigIn) (*Config, error) {
	var c Config
	if err := configx.GetUnmarshalStruct(cfg, "", &c); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	SetDefaults(&c)
	if err := Validate(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetDefaults 设置配置默认值
func SetDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Mysql.MaxIdleConns == 0 {
		cfg.Mysql.MaxIdleConns = 10
	}
	if cfg.Mysql.MaxOpenConns == 0 {
		cfg.Mysql.MaxOpenConns = 100
	}
	if cfg.Mysql.ConnMaxLifetime == 0 {
		cfg.Mysql.ConnMaxLifetime = time.Hour
	}
	if cfg.Mysql.SlowThreshold == 0 {
		cfg.Mysql.SlowThreshold = 200 * time.Millisecond
	}

	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 100
	}

	if cfg.Log.Driver == "" {
		cfg.Log.Driver = LogDriverZerolog
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Queue.Backend == "" {
		cfg.Queue.Backend = QueueBackendRedis
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "ryTask"
	}
	if cfg.Queue.Concurrency == 0 {
		cfg.Queue.Concurrency = 4
	}
	if cfg.Queue.PollInterval == 0 {
		cfg.Queue.PollInterval = time.Second
	}
	if cfg.Queue.LockName == "" {
		cfg.Queue.LockName = "ry-admin:queue:leader"
	}
	if cfg.Queue.LockExpiry == 0 {
		cfg.Queue.LockExpiry = 30 * time.Second
	}

	if cfg.JobLog.Buffer == 0 {
		cfg.JobLog.Buffer = 1024
	}
	if cfg.JobLog.BatchSize == 0 {
		cfg.JobLog.BatchSize = 50
	}
	if cfg.JobLog.FlushInterval == 0 {
		cfg.JobLog.FlushInterval = time.Second
	}

	if cfg.Jwt.ExpiresIn == 0 {
		cfg.Jwt.ExpiresIn = 30 * time.Minute
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "ry-job-log"
	}
	if cfg.Kafka.ClientId == "" {
		cfg.Kafka.ClientId = "ry-admin"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "ry_admin"
	}
	if cfg.Limit.Interval == 0 {
		cfg.Limit.Interval = time.Second
	}
	if cfg.Limit.Rate == 0 {
		cfg.Limit.Rate = 100
	}
	if cfg.Trace.ServiceName == "" {
		cfg.Trace.ServiceName = "ry-admin"
	}
}

// Validate 验证配置
func Validate(cfg Config) error {
	var err error
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		err = errors.Join(err, fmt.Errorf("无效的服务端口: %d", cfg.Server.Port))
	}
	if cfg.Mysql.DSN == "" {
		err = errors.Join(err, errors.New("mysql.dsn 不能为空"))
	}
	switch cfg.Queue.Backend {
	case QueueBackendRedis:
		if cfg.Redis.Addr == "" {
			err = errors.Join(err, errors.New("queue.backend 为 redis 时 redis.addr 不能为空"))
		}
	case QueueBackendLocal:
	default:
		err = errors.Join(err, fmt.Errorf("不支持的 queue.backend: %s", cfg.Queue.Backend))
	}
	switch cfg.Log.Driver {
	case LogDriverZerolog, LogDriverZap:
	default:
		err = errors.Join(err, fmt.Errorf("不支持的 log.driver: %s", cfg.Log.Driver))
	}
	if cfg.Limit.Enabled && cfg.Redis.Addr == "" {
		err = errors.Join(err, errors.New("rate_limit.enabled 时 redis.addr 不能为空"))
	}
	if cfg.Jwt.Key == "" {
		err = errors.Join(err, errors.New("jwt.key 不能为空"))
	}
	return err
}
