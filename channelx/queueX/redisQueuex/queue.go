// Package redisQueuex 基于 redis 的持久化重复任务队列：
// 重复任务定义存 HASH，下次触发时间存 ZSET，到期后由持锁实例展开为任务实例投递到等待队列，
// 多个 worker 通过 ZPOPMIN 竞争消费。
package redisQueuex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/lock/redsyncx"
	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// priorityWeight 优先任务排序权重，毫秒时间戳远小于该值
const priorityWeight = 1e13

var (
	_ queueX.Queue  = (*RedisQueue)(nil)
	_ queueX.Worker = (*RedisQueue)(nil)
)

// repeatDef 重复任务定义
type repeatDef struct {
	Key  string          `json:"key"`
	Id   string          `json:"id"`
	Cron string          `json:"cron"`
	Data json.RawMessage `json:"data"`
	Opts queueX.JobOpts  `json:"opts"`
}

type Option func(*RedisQueue)

// WithLeader 多实例部署时只有持锁实例展开到期的重复任务，不设置则本实例总是展开
func WithLeader(leader redsyncx.RedSyncIn) Option {
	return func(q *RedisQueue) { q.leader = leader }
}

// WithConcurrency worker 并发数，默认 1
func WithConcurrency(n int) Option {
	return func(q *RedisQueue) {
		if n > 0 {
			q.concurrency = n
		}
	}
}

// WithPollInterval 空闲轮询与重复任务扫描间隔，默认 1 秒
func WithPollInterval(d time.Duration) Option {
	return func(q *RedisQueue) {
		if d > 0 {
			q.pollInterval = d
		}
	}
}

// WithClock 替换时钟，测试使用
func WithClock(now func() time.Time) Option {
	return func(q *RedisQueue) { q.now = now }
}

type RedisQueue struct {
	client redis.Cmdable
	name   string
	keys   keys
	l      logx.Loggerx

	leader       redsyncx.RedSyncIn
	concurrency  int
	pollInterval time.Duration
	now          func() time.Time

	closeOnce sync.Once
	closeCh   chan struct{}
}

// NewRedisQueue redis 客户端生命周期由调用方负责
func NewRedisQueue(client redis.Cmdable, name string, l logx.Loggerx, opts ...Option) *RedisQueue {
	q := &RedisQueue{
		client:       client,
		name:         name,
		keys:         newKeys(name),
		l:            l.With(logx.String("queue", name)),
		concurrency:  1,
		pollInterval: time.Second,
		now:          time.Now,
		closeCh:      make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

func (q *RedisQueue) Name() string { return q.name }

// Ping 检查 redis 连接
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Add(ctx context.Context, data any, opts queueX.JobOpts) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("序列化任务数据失败: %w", err)
	}
	if opts.Repeat != nil {
		return q.addRepeatable(ctx, raw, opts)
	}
	return q.addJob(ctx, raw, opts)
}

// addRepeatable 同一个重复 key 重复注册时覆盖定义与触发时间，保证只有一条
func (q *RedisQueue) addRepeatable(ctx context.Context, raw json.RawMessage, opts queueX.JobOpts) (string, error) {
	sched, err := queueX.ParseCron(opts.Repeat.Cron)
	if err != nil {
		return "", err
	}
	key := queueX.RepeatKey(opts.JobId, *opts.Repeat)
	def, err := json.Marshal(repeatDef{Key: key, Id: opts.JobId, Cron: opts.Repeat.Cron, Data: raw, Opts: opts})
	if err != nil {
		return "", err
	}
	next := sched.Next(q.now())
	if next.IsZero() {
		return "", fmt.Errorf("cron 表达式 %q 没有下一次触发时间", opts.Repeat.Cron)
	}

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.keys.repeatDefs, key, def)
	pipe.ZAdd(ctx, q.keys.repeat, redis.Z{Score: float64(next.UnixMilli()), Member: key})
	if _, err = pipe.Exec(ctx); err != nil {
		return "", err
	}
	q.l.Debug("注册重复任务", logx.String("key", key), logx.String("cron", opts.Repeat.Cron), logx.TimeTime("next", next))
	return key, nil
}

// addJob 指定 jobId 且任务已存在时不重复入队
func (q *RedisQueue) addJob(ctx context.Context, raw json.RawMessage, opts queueX.JobOpts) (string, error) {
	id := opts.JobId
	if id == "" {
		id = uuid.NewString()
	}
	ok, err := q.client.HSetNX(ctx, q.keys.job(id), "data", string(raw)).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		q.l.Debug("任务已存在，忽略重复入队", logx.String("jobId", id))
		return id, nil
	}
	optsRaw, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	ts := q.now().UnixMilli()

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.keys.job(id), "opts", string(optsRaw), "timestamp", ts)
	if opts.Priority > 0 {
		pipe.ZAdd(ctx, q.keys.prioritized, redis.Z{Score: float64(opts.Priority)*priorityWeight + float64(ts), Member: id})
	} else {
		pipe.ZAdd(ctx, q.keys.wait, redis.Z{Score: float64(ts), Member: id})
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (q *RedisQueue) GetRepeatableJobs(ctx context.Context) ([]queueX.RepeatableJob, error) {
	zs, err := q.client.ZRangeWithScores(ctx, q.keys.repeat, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return []queueX.RepeatableJob{}, nil
	}
	fields := make([]string, 0, len(zs))
	for _, z := range zs {
		fields = append(fields, z.Member.(string))
	}
	defs, err := q.client.HMGet(ctx, q.keys.repeatDefs, fields...).Result()
	if err != nil {
		return nil, err
	}

	res := make([]queueX.RepeatableJob, 0, len(zs))
	for i, z := range zs {
		rj := queueX.RepeatableJob{Key: fields[i], Next: int64(z.Score)}
		if s, ok := defs[i].(string); ok {
			var def repeatDef
			if err := json.Unmarshal([]byte(s), &def); err == nil {
				rj.Id = def.Id
				rj.Cron = def.Cron
			}
		}
		res = append(res, rj)
	}
	return res, nil
}

func (q *RedisQueue) RemoveRepeatable(ctx context.Context, repeat queueX.RepeatOpts) error {
	return q.RemoveRepeatableByKey(ctx, queueX.RepeatKey("", repeat))
}

func (q *RedisQueue) RemoveRepeatableByKey(ctx context.Context, key string) error {
	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, q.keys.repeat, key)
	pipe.HDel(ctx, q.keys.repeatDefs, key)
	_, err := pipe.Exec(ctx)
	return err
}

// Counts 各状态任务数量，监控与测试使用
func (q *RedisQueue) Counts(ctx context.Context) (map[string]int64, error) {
	pipe := q.client.Pipeline()
	cmds := map[string]*redis.IntCmd{
		"repeat":      pipe.ZCard(ctx, q.keys.repeat),
		"wait":        pipe.ZCard(ctx, q.keys.wait),
		"prioritized": pipe.ZCard(ctx, q.keys.prioritized),
		"completed":   pipe.ZCard(ctx, q.keys.completed),
		"failed":      pipe.ZCard(ctx, q.keys.failed),
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	res := make(map[string]int64, len(cmds))
	for k, c := range cmds {
		res[k] = c.Val()
	}
	return res, nil
}

func (q *RedisQueue) Close() error {
	q.closeOnce.Do(func() { close(q.closeCh) })
	return nil
}

func msString(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
