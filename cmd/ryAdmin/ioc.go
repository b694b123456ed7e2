package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"gitee.com/hgg_test/ry_admin/DBx/cachex/cacheLocalx/cacheLocalRistrettox"
	"gitee.com/hgg_test/ry_admin/DBx/gormx/dbLogx"
	"gitee.com/hgg_test/ry_admin/DBx/gormx/dbPrometheusx"
	"gitee.com/hgg_test/ry_admin/DBx/redisX/redisPrometheusx"
	"gitee.com/hgg_test/ry_admin/channelx/mqX/kafkaX/saramaX/producerX"
	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/channelx/queueX/redisQueuex"
	"gitee.com/hgg_test/ry_admin/limiter"
	"gitee.com/hgg_test/ry_admin/lock/redsyncx"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/logx/zaplogx"
	"gitee.com/hgg_test/ry_admin/logx/zerologx"
	"gitee.com/hgg_test/ry_admin/observationX/opentelemetryX"
	"gitee.com/hgg_test/ry_admin/observationX/prometheusX"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/cronX"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/config"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/invoker"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository/dao"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/web"
	"gitee.com/hgg_test/ry_admin/systemLoad/gopsutilx"
	"gitee.com/hgg_test/ry_admin/webx/ginx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/ginPrometheusx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/jwtx"
	middleware "gitee.com/hgg_test/ry_admin/webx/ginx/middleware/logx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/ratelimitx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// JobQueue 调度队列，既负责注册重复任务也负责消费
type JobQueue interface {
	queueX.Queue
	queueX.Worker
}

// InitLogger log.driver 选择 zerolog 或 zap
func InitLogger(cfg *config.Config) logx.Loggerx {
	if cfg.Log.Driver == config.LogDriverZap {
		zc := zap.NewProductionConfig()
		if lv, err := zap.ParseAtomicLevel(cfg.Log.Level); err == nil {
			zc.Level = lv
		}
		zl, err := zc.Build()
		if err != nil {
			panic(err)
		}
		return zaplogx.NewZapLogger(zl)
	}
	return newZerolog(cfg.Log.Level)
}

func newZerolog(level string) logx.Loggerx {
	lv, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lv = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).Level(lv).With().Timestamp().Caller().Str("module", "ry-admin").Logger()
	return zerologx.NewZeroLogger(&logger)
}

func InitDB(cfg *config.Config, l logx.Loggerx) *gorm.DB {
	db, err := gorm.Open(mysql.Open(cfg.Mysql.DSN), &gorm.Config{
		Logger: dbLogx.NewGormLogx(l, cfg.Mysql.SlowThreshold),
	})
	if err != nil {
		panic(fmt.Errorf("连接 mysql 失败: %w", err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(cfg.Mysql.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Mysql.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Mysql.ConnMaxLifetime)

	if cfg.Metrics.Enabled {
		err = db.Use(dbPrometheusx.NewCallbacks(dbPrometheusx.PrometheusSummaryOpts{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: "gorm",
			Name:      "sql_time",
			Help:      "sql 执行耗时，单位毫秒",
			Objectives: map[float64]float64{
				0.5:  0.01,
				0.9:  0.01,
				0.99: 0.001,
			},
		}))
		if err != nil {
			panic(err)
		}
	}
	if cfg.Mysql.AutoMigrate {
		if err = dao.InitTables(db); err != nil {
			panic(fmt.Errorf("建表失败: %w", err))
		}
	}
	return db
}

// InitRedis redis.addr 为空返回 nil，只有 local 队列允许不配 redis
func InitRedis(cfg *config.Config) redis.UniversalClient {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if cfg.Metrics.Enabled {
		client.AddHook(redisPrometheusx.NewPrometheusHook(prometheus.HistogramOpts{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: "redis",
			Name:      "cmd_duration_seconds",
			Help:      "redis 命令耗时",
			Buckets:   prometheus.DefBuckets,
		}))
	}
	return client
}

// InitLeader redis 队列多实例部署时的展开锁
func InitLeader(cfg *config.Config, client redis.UniversalClient, l logx.Loggerx) *redsyncx.LockRedsync {
	if cfg.Queue.Backend != config.QueueBackendRedis || client == nil {
		return nil
	}
	return redsyncx.NewLockRedsync([]redis.UniversalClient{client}, l, redsyncx.Config{
		LockName: cfg.Queue.LockName,
		Expiry:   cfg.Queue.LockExpiry,
	})
}

func InitQueue(cfg *config.Config, client redis.UniversalClient, leader *redsyncx.LockRedsync, l logx.Loggerx) JobQueue {
	qc := cfg.Queue
	if qc.Backend == config.QueueBackendLocal {
		opts := []cronX.Option{cronX.WithConcurrency(qc.Concurrency)}
		if qc.LoadGate {
			opts = append(opts, cronX.WithLoadProbe(gopsutilx.NewSystemLoad(), 30*time.Second))
		}
		return cronX.NewLocalQueue(l, opts...)
	}
	opts := []redisQueuex.Option{
		redisQueuex.WithConcurrency(qc.Concurrency),
		redisQueuex.WithPollInterval(qc.PollInterval),
	}
	if leader != nil {
		opts = append(opts, redisQueuex.WithLeader(leader))
	}
	return redisQueuex.NewRedisQueue(client, qc.Name, l, opts...)
}

func InitQueueRegistrar(q JobQueue) queueX.Queue {
	return q
}

// InitDirectory cache.max_items 大于 0 时用 ristretto 缓存用户与角色
func InitDirectory(cfg *config.Config, d dao.RbacDAO, l logx.Loggerx) repository.Directory {
	dir := repository.NewDirectory(d)
	if cfg.Cache.MaxItems <= 0 {
		return dir
	}
	roles, err := cacheLocalRistrettox.NewDefault[int64, []domain.Role](cfg.Cache.MaxItems)
	if err != nil {
		panic(err)
	}
	users, err := cacheLocalRistrettox.NewDefault[int64, domain.User](cfg.Cache.MaxItems)
	if err != nil {
		panic(err)
	}
	return repository.NewCachedDirectory(dir, roles, users, cfg.Cache.TTL, l)
}

// InitLogSink 执行日志落库，配置了 kafka 时同时投递
func InitLogSink(cfg *config.Config, repo repository.JobLogRepository, l logx.Loggerx) (invoker.LogSink, func()) {
	if len(cfg.Kafka.Addrs) == 0 {
		return repo, func() {}
	}
	pc := producerX.DefaultProducerConfig()
	pc.ClientId = cfg.Kafka.ClientId
	producer, err := producerX.NewKafkaProducer(cfg.Kafka.Addrs, pc)
	if err != nil {
		// kafka 不可用不影响落库
		l.Error("kafka 生产者初始化失败，执行日志只写数据库", logx.Error(err))
		return repo, func() {}
	}
	sink := invoker.MultiSink(repo, invoker.NewKafkaLogSink(producer, cfg.Kafka.Topic))
	return sink, func() {
		if er := producer.Close(); er != nil {
			l.Error("关闭 kafka 生产者失败", logx.Error(er))
		}
	}
}

func InitLogWriter(cfg *config.Config, sink invoker.LogSink, l logx.Loggerx) *invoker.LogWriter {
	return invoker.NewLogWriter(sink, l,
		invoker.WithBuffer(cfg.JobLog.Buffer),
		invoker.WithBatch(cfg.JobLog.BatchSize, cfg.JobLog.FlushInterval),
	)
}

func InitRegistry(l logx.Loggerx) *invoker.Registry {
	return invoker.RegisterRyTask(invoker.NewRegistry(), l)
}

func InitJwt(cfg *config.Config) *jwtx.JwtHandler {
	return jwtx.NewJwtHandler(jwtx.Config{
		JwtKey:    []byte(cfg.Jwt.Key),
		ExpiresIn: cfg.Jwt.ExpiresIn,
	})
}

func InitMiddlewares(cfg *config.Config, client redis.UniversalClient, l logx.Loggerx, jh *jwtx.JwtHandler) []gin.HandlerFunc {
	mdls := []gin.HandlerFunc{
		gin.Recovery(),
		middleware.NewGinLogx(l).Build(),
	}
	if cfg.Metrics.Enabled {
		pb := ginPrometheusx.NewBuilder(ginPrometheusx.Builder{
			Namespace:  cfg.Metrics.Namespace,
			Subsystem:  "http",
			Name:       "gin",
			InstanceId: instanceId(),
			Help:       "gin 接口统计",
		})
		mdls = append(mdls, pb.BuildResponseTime(), pb.BuildActiveRequest())
	}
	mdls = append(mdls, jh.IgnorePaths(cfg.Metrics.Path).Build())
	if cfg.Limit.Enabled && client != nil {
		lim := limiter.NewRedisSlideWindowLimiter(client, cfg.Limit.Interval, cfg.Limit.Rate)
		mdls = append(mdls, ratelimitx.NewBuilder(lim, l).Build())
	}
	return mdls
}

func InitWebServer(cfg *config.Config, l logx.Loggerx, mdls []gin.HandlerFunc,
	jobWeb *web.JobWeb, jobLogWeb *web.JobLogWeb) *gin.Engine {
	ginx.SetLogger(l)
	if cfg.Metrics.Enabled {
		ginx.InitCounter(prometheus.CounterOpts{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: "http",
			Name:      "biz_code",
			Help:      "业务返回码统计",
		})
	}
	server := gin.New()
	server.Use(mdls...)
	if cfg.Metrics.Enabled {
		prometheusX.RegisterGin(server, cfg.Metrics.Path)
	}
	jobWeb.Register(server)
	jobLogWeb.Register(server)
	return server
}

// InitOtel trace.zipkin_url 为空时只设置 propagator
func InitOtel(cfg *config.Config) (opentelemetryX.ShutdownFn, error) {
	exporter, err := opentelemetryX.NewZipkinExporter(cfg.Trace.ZipkinURL)
	if err != nil {
		return nil, err
	}
	return opentelemetryX.InitOtel(opentelemetryX.SvcInfo{
		ServiceName:    cfg.Trace.ServiceName,
		ServiceVersion: "v1.0.0",
	}, exporter)
}

func instanceId() string {
	host, err := gopsutilx.NewSystemLoad().Hostname(context.Background())
	if err != nil || host == "" {
		return strconv.Itoa(os.Getpid())
	}
	return host
}
