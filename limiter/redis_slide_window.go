package limiter

import (
	"context"
	_ "embed"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:embed slide_window.lua
var luaSlideWindow string

// RedisSlideWindowLimiter 多实例共享的滑动窗口限流
type RedisSlideWindowLimiter struct {
	cmd      redis.Cmdable
	interval time.Duration
	// 阈值
	rate int
	now  func() time.Time
}

// NewRedisSlideWindowLimiter
//   - interval: 窗口大小，eg: time.Second 表示每秒最多 rate 个请求
func NewRedisSlideWindowLimiter(cmd redis.Cmdable, interval time.Duration, rate int) *RedisSlideWindowLimiter {
	return &RedisSlideWindowLimiter{cmd: cmd, interval: interval, rate: rate, now: time.Now}
}

func (r *RedisSlideWindowLimiter) Limit(ctx context.Context, key string) (bool, error) {
	return r.cmd.Eval(ctx, luaSlideWindow, []string{key},
		r.interval.Milliseconds(), r.rate, r.now().UnixMilli(), uuid.NewString()).Bool()
}
