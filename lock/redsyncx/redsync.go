package redsyncx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/go-redsync/redsync/v4"
	redRedis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockNotAcquired 锁未获取错误
	ErrLockNotAcquired = errors.New("锁未获取")
)

// LockStatus 锁状态枚举
type LockStatus int

const (
	// LockStatusUnknown 锁未知状态
	LockStatusUnknown LockStatus = iota
	// LockStatusAcquired 锁已获取
	LockStatusAcquired
	// LockStatusLost 锁丢失
	LockStatusLost
	// LockStatusReleased 锁释放
	LockStatusReleased
)

func (s LockStatus) String() string {
	switch s {
	case LockStatusAcquired:
		return "锁已获取"
	case LockStatusLost:
		return "锁丢失"
	case LockStatusReleased:
		return "锁释放"
	default:
		return "未知状态"
	}
}

// LockResult 锁操作结果
type LockResult struct {
	Status LockStatus
	Error  error
}

// Config 锁配置
type Config struct {
	// 锁名称
	LockName string
	// 锁过期时间
	Expiry time.Duration
	// 未持锁时重试间隔
	RetryDelay time.Duration
	// 续约间隔时间（默认过期时间的1/3）
	RenewalInterval time.Duration
	// 状态通道缓冲区大小
	StatusChanBuffer int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		LockName:         "distributed-lock",
		Expiry:           30 * time.Second,
		RetryDelay:       2 * time.Second,
		StatusChanBuffer: 10,
	}
}

// LockRedsync 基于 redsync 的抢占式分布式锁：后台循环抢锁，抢到后按间隔续约，续约失败视为丢锁重新抢
type LockRedsync struct {
	rsMutex *redsync.Mutex
	logger  logx.Loggerx
	config  Config

	mu        sync.RWMutex
	status    LockStatus
	isRunning bool

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	statusChan chan LockResult
}

// NewLockRedsync 创建分布式锁，多个 client 时按 redlock 算法多数派加锁
func NewLockRedsync(clients []redis.UniversalClient, logger logx.Loggerx, config Config) *LockRedsync {
	def := DefaultConfig()
	if config.LockName == "" {
		config.LockName = def.LockName
	}
	if config.Expiry <= 0 {
		config.Expiry = def.Expiry
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = def.RetryDelay
	}
	if config.RenewalInterval <= 0 {
		config.RenewalInterval = config.Expiry / 3
	}
	if config.StatusChanBuffer <= 0 {
		config.StatusChanBuffer = def.StatusChanBuffer
	}

	pools := make([]redRedis.Pool, 0, len(clients))
	for _, client := range clients {
		pools = append(pools, goredis.NewPool(client))
	}
	rs := redsync.New(pools...)
	mutex := rs.NewMutex(
		config.LockName,
		redsync.WithExpiry(config.Expiry),
		redsync.WithTries(1), // 重试由外层循环控制
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &LockRedsync{
		rsMutex:    mutex,
		logger:     logger.With(logx.String("lockName", config.LockName)),
		config:     config,
		ctx:        ctx,
		cancel:     cancel,
		statusChan: make(chan LockResult, config.StatusChanBuffer),
	}
}

// Start 启动抢锁循环，返回状态通道（非阻塞投递，消费方可不读）
func (dl *LockRedsync) Start() <-chan LockResult {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.isRunning {
		dl.logger.Warn("锁服务已在运行中")
		return dl.statusChan
	}
	dl.isRunning = true
	dl.logger.Info("启动锁服务")

	dl.wg.Add(1)
	go dl.loop()
	return dl.statusChan
}

// Stop 停止锁服务，持有锁时主动释放
func (dl *LockRedsync) Stop() {
	dl.mu.Lock()
	if !dl.isRunning {
		dl.mu.Unlock()
		return
	}
	dl.isRunning = false
	dl.mu.Unlock()

	dl.cancel()
	dl.wg.Wait()

	if dl.IsLocked() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if _, err := dl.rsMutex.UnlockContext(ctx); err != nil {
			dl.logger.Error("释放锁失败", logx.Error(err))
		}
		dl.setStatus(LockStatusReleased, nil)
	}
	close(dl.statusChan)
	dl.logger.Info("锁服务已停止")
}

// Status 获取当前锁状态
func (dl *LockRedsync) Status() LockStatus {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	return dl.status
}

// IsLocked 检查是否持有锁
func (dl *LockRedsync) IsLocked() bool {
	return dl.Status() == LockStatusAcquired
}

// loop 未持锁时按 RetryDelay 抢锁，持锁时按 RenewalInterval 续约
func (dl *LockRedsync) loop() {
	defer dl.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			dl.logger.Error("锁循环发生panic", logx.Any("panic", r))
		}
	}()

	for {
		wait := dl.config.RetryDelay
		if dl.IsLocked() {
			if err := dl.renew(); err != nil {
				dl.setStatus(LockStatusLost, err)
				dl.logger.Warn("锁续约失败，锁已丢失", logx.Error(err))
			} else {
				wait = dl.config.RenewalInterval
			}
		} else {
			if err := dl.rsMutex.TryLockContext(dl.ctx); err != nil {
				dl.logger.Debug("获取锁失败，等待重试", logx.Error(err), logx.TimeDuration("retryDelay", wait))
			} else {
				dl.setStatus(LockStatusAcquired, nil)
				wait = dl.config.RenewalInterval
			}
		}

		select {
		case <-dl.ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (dl *LockRedsync) renew() error {
	ok, err := dl.rsMutex.ExtendContext(dl.ctx)
	if err != nil {
		return fmt.Errorf("锁续约失败: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}
	return nil
}

// setStatus 更新锁状态，真正变更时非阻塞通知
func (dl *LockRedsync) setStatus(status LockStatus, err error) {
	dl.mu.Lock()
	old := dl.status
	dl.status = status
	dl.mu.Unlock()

	if old == status {
		return
	}
	dl.logger.Info("锁状态变更", logx.String("status", status.String()), logx.Any("cause", err))
	select {
	case dl.statusChan <- LockResult{Status: status, Error: err}:
	default:
	}
}
