// Package limiter 限流
package limiter

import "context"

type Limiter interface {
	// Limit 返回 true 表示触发限流
	Limit(ctx context.Context, key string) (bool, error)
}
