package cacheLocalx

import (
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("local cache miss, 查询缓存失败, Key不存在或已过期")
	// ErrCacheRejected 准入策略拒绝或缓冲区已满
	ErrCacheRejected = errors.New("set local cache rejected, 设置本地缓存失败")
)

type Key interface {
	uint64 | string | []byte | byte | int | int32 | uint32 | int64
}

/*
	cost权重建议：【Set时的cost权重配置建议】
	缓存结构体							统一设为 1（按条数）
	不确定大小							固定 cost=1，靠 MaxCost 控制总条数
*/

// CacheLocalIn 抽象缓存接口
type CacheLocalIn[K Key, V any] interface {
	Set(key K, value V, ttl time.Duration, weight int64) error
	Get(key K) (V, error)
	Del(key K) error
	// Clear 清空全部缓存【角色、部门变更时整体失效】
	Clear()

	// WaitSet 堵塞直至缓冲写入通过
	WaitSet()
	// Close 关闭会停止所有goroutines并关闭所有频道
	Close()
}
