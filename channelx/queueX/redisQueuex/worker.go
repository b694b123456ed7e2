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
	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/redis/go-redis/v9"
)

// promoteBatch 单次扫描最多展开的重复任务数
const promoteBatch = 100

// Process 启动重复任务扫描与 worker 消费，阻塞直到 ctx 结束或 Close
func (q *RedisQueue) Process(ctx context.Context, handler queueX.HandlerFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-q.closeCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.promoteLoop(ctx)
	}()
	for i := 0; i < q.concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			q.workLoop(ctx, idx, handler)
		}(i)
	}
	q.l.Info("队列开始消费", logx.Int("concurrency", q.concurrency))
	wg.Wait()
	q.l.Info("队列停止消费")
	return nil
}

func (q *RedisQueue) promoteLoop(ctx context.Context) {
	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()
	for {
		if q.leader == nil || q.leader.IsLocked() {
			if n, err := q.promoteDue(ctx); err != nil && ctx.Err() == nil {
				q.l.Error("展开到期重复任务失败", logx.Error(err))
			} else if n > 0 {
				q.l.Debug("展开到期重复任务", logx.Int("count", n))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// promoteDue 将到期的重复任务展开为任务实例，实例 id 为 repeat:{key}:{触发时间}，重复展开会被 addJob 去重
func (q *RedisQueue) promoteDue(ctx context.Context) (int, error) {
	now := q.now()
	due, err := q.client.ZRangeByScoreWithScores(ctx, q.keys.repeat, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: promoteBatch,
	}).Result()
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, z := range due {
		key := z.Member.(string)
		raw, err := q.client.HGet(ctx, q.keys.repeatDefs, key).Result()
		if errors.Is(err, redis.Nil) {
			// 定义已被删除，清理残留触发时间
			q.client.ZRem(ctx, q.keys.repeat, key)
			continue
		}
		if err != nil {
			return promoted, err
		}
		var def repeatDef
		if err = json.Unmarshal([]byte(raw), &def); err != nil {
			q.l.Error("重复任务定义损坏，已移除", logx.String("key", key), logx.Error(err))
			_ = q.RemoveRepeatableByKey(ctx, key)
			continue
		}
		sched, err := queueX.ParseCron(def.Cron)
		if err != nil {
			q.l.Error("重复任务 cron 非法，已移除", logx.String("key", key), logx.Error(err))
			_ = q.RemoveRepeatableByKey(ctx, key)
			continue
		}

		// XX: 只更新已存在的成员，扫描期间被删除的重复任务不会被复活
		next := sched.Next(now)
		if err = q.client.ZAddArgs(ctx, q.keys.repeat, redis.ZAddArgs{
			XX:      true,
			Members: []redis.Z{{Score: float64(next.UnixMilli()), Member: key}},
		}).Err(); err != nil {
			return promoted, err
		}

		opts := def.Opts
		opts.Repeat = nil
		opts.JobId = fmt.Sprintf("repeat:%s:%d", key, int64(z.Score))
		if _, err = q.addJob(ctx, def.Data, opts); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

func (q *RedisQueue) workLoop(ctx context.Context, idx int, handler queueX.HandlerFunc) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, ok, err := q.next(ctx)
		if err != nil && ctx.Err() == nil {
			q.l.Error("获取任务失败", logx.Int("worker", idx), logx.Error(err))
		}
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(q.pollInterval):
			}
			continue
		}
		herr := q.invoke(ctx, handler, job)
		// 收尾使用独立 ctx，避免停机时丢失任务状态
		fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if herr != nil {
			err = q.fail(fctx, job, herr)
		} else {
			err = q.complete(fctx, job)
		}
		cancel()
		if err != nil {
			q.l.Error("更新任务状态失败", logx.String("jobId", job.Id), logx.Error(err))
		}
	}
}

// next 优先任务先于普通任务出队
func (q *RedisQueue) next(ctx context.Context) (queueX.Job, bool, error) {
	for _, key := range []string{q.keys.prioritized, q.keys.wait} {
		zs, err := q.client.ZPopMin(ctx, key, 1).Result()
		if err != nil {
			return queueX.Job{}, false, err
		}
		if len(zs) == 0 {
			continue
		}
		id := zs[0].Member.(string)
		job, err := q.loadJob(ctx, id)
		if err != nil {
			return queueX.Job{}, false, err
		}
		return job, true, nil
	}
	return queueX.Job{}, false, nil
}

func (q *RedisQueue) loadJob(ctx context.Context, id string) (queueX.Job, error) {
	fields, err := q.client.HGetAll(ctx, q.keys.job(id)).Result()
	if err != nil {
		return queueX.Job{}, err
	}
	if len(fields) == 0 {
		return queueX.Job{}, fmt.Errorf("任务 %s 数据不存在", id)
	}
	job := queueX.Job{Id: id, Data: json.RawMessage(fields["data"])}
	if s := fields["opts"]; s != "" {
		if err = json.Unmarshal([]byte(s), &job.Opts); err != nil {
			return queueX.Job{}, err
		}
	}
	job.Timestamp, _ = strconv.ParseInt(fields["timestamp"], 10, 64)
	return job, nil
}

func (q *RedisQueue) invoke(ctx context.Context, handler queueX.HandlerFunc, job queueX.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("任务处理 panic: %v", r)
		}
	}()
	return handler(ctx, job)
}

func (q *RedisQueue) complete(ctx context.Context, job queueX.Job) error {
	if job.Opts.RemoveOnComplete {
		return q.client.Del(ctx, q.keys.job(job.Id)).Err()
	}
	finished := q.now()
	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.keys.job(job.Id), "finishedOn", msString(finished))
	pipe.ZAdd(ctx, q.keys.completed, redis.Z{Score: float64(finished.UnixMilli()), Member: job.Id})
	_, err := pipe.Exec(ctx)
	return err
}

// fail 记录失败原因，按 RemoveOnFail 保留最近的失败记录
func (q *RedisQueue) fail(ctx context.Context, job queueX.Job, cause error) error {
	if job.Opts.RemoveOnFail < 0 {
		return q.client.Del(ctx, q.keys.job(job.Id)).Err()
	}
	finished := q.now()
	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.keys.job(job.Id), "failedReason", cause.Error(), "finishedOn", msString(finished))
	pipe.ZAdd(ctx, q.keys.failed, redis.Z{Score: float64(finished.UnixMilli()), Member: job.Id})
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if keep := int64(job.Opts.RemoveOnFail); keep > 0 {
		return q.trimFailed(ctx, keep)
	}
	return nil
}

// trimFailed 只保留分数最高的 keep 条，按排名区间删除，并发重复执行结果一致
func (q *RedisQueue) trimFailed(ctx context.Context, keep int64) error {
	stale, err := q.client.ZRange(ctx, q.keys.failed, 0, -keep-1).Result()
	if err != nil || len(stale) == 0 {
		return err
	}
	pipe := q.client.TxPipeline()
	for _, id := range stale {
		pipe.Del(ctx, q.keys.job(id))
	}
	pipe.ZRemRangeByRank(ctx, q.keys.failed, 0, -keep-1)
	_, err = pipe.Exec(ctx)
	return err
}

// FailedReason 查询失败原因，测试与排障使用
func (q *RedisQueue) FailedReason(ctx context.Context, id string) (string, error) {
	return q.client.HGet(ctx, q.keys.job(id), "failedReason").Result()
}
