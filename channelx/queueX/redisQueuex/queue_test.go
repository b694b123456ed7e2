package redisQueuex

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gitee.com/hgg_test/ry_admin/channelx/queueX"
	"gitee.com/hgg_test/ry_admin/logx"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type payload struct {
	JobId        int64  `json:"jobId"`
	InvokeTarget string `json:"invokeTarget"`
}

type RedisQueueSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	clock  *fakeClock
	q      *RedisQueue
}

func (s *RedisQueueSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.clock = &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 500_000_000, time.Local)}
	s.q = NewRedisQueue(s.client, "ryTask", logx.NewNopLogger(),
		WithClock(s.clock.Now), WithPollInterval(10*time.Millisecond), WithConcurrency(2))
}

func (s *RedisQueueSuite) TearDownTest() {
	_ = s.q.Close()
	_ = s.client.Close()
}

func (s *RedisQueueSuite) repeatOpts(uid, cron string) queueX.JobOpts {
	return queueX.JobOpts{
		JobId:            uid,
		Repeat:           &queueX.RepeatOpts{Cron: cron, Key: uid},
		RemoveOnComplete: true,
		RemoveOnFail:     100,
	}
}

func (s *RedisQueueSuite) TestAddRepeatable_Idempotent() {
	ctx := context.Background()
	data := payload{JobId: 1, InvokeTarget: "ryTask.ryNoParams"}
	for i := 0; i < 2; i++ {
		key, err := s.q.Add(ctx, data, s.repeatOpts("1:ryTask.ryNoParams", "0/10 * * * * ?"))
		s.Require().NoError(err)
		s.Equal("1:ryTask.ryNoParams", key)
	}

	jobs, err := s.q.GetRepeatableJobs(ctx)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal("1:ryTask.ryNoParams", jobs[0].Id)
	s.Equal("0/10 * * * * ?", jobs[0].Cron)
	s.Equal(time.Date(2024, 5, 1, 10, 0, 10, 0, time.Local).UnixMilli(), jobs[0].Next)
}

func (s *RedisQueueSuite) TestAddRepeatable_InvalidCron() {
	_, err := s.q.Add(context.Background(), payload{}, s.repeatOpts("1:x.y", "bad cron"))
	s.Error(err)
	jobs, err := s.q.GetRepeatableJobs(context.Background())
	s.NoError(err)
	s.Empty(jobs)
}

func (s *RedisQueueSuite) TestRemoveRepeatable() {
	ctx := context.Background()
	_, err := s.q.Add(ctx, payload{JobId: 1}, s.repeatOpts("1:a.b", "* * * * *"))
	s.Require().NoError(err)
	_, err = s.q.Add(ctx, payload{JobId: 2}, s.repeatOpts("2:a.c", "* * * * *"))
	s.Require().NoError(err)

	s.NoError(s.q.RemoveRepeatable(ctx, queueX.RepeatOpts{Cron: "* * * * *", Key: "1:a.b"}))
	s.NoError(s.q.RemoveRepeatableByKey(ctx, "not-exist"))

	jobs, err := s.q.GetRepeatableJobs(ctx)
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal("2:a.c", jobs[0].Key)

	s.NoError(s.q.RemoveRepeatableByKey(ctx, "2:a.c"))
	jobs, err = s.q.GetRepeatableJobs(ctx)
	s.NoError(err)
	s.Empty(jobs)
}

func (s *RedisQueueSuite) TestPromoteDue() {
	ctx := context.Background()
	_, err := s.q.Add(ctx, payload{JobId: 3}, s.repeatOpts("3:ryTask.ryNoParams", "* * * * * *"))
	s.Require().NoError(err)

	// 未到期
	n, err := s.q.promoteDue(ctx)
	s.Require().NoError(err)
	s.Zero(n)

	s.clock.Set(time.Date(2024, 5, 1, 10, 0, 2, 0, time.Local))
	n, err = s.q.promoteDue(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	// 同一时刻再次扫描不会重复展开
	n, err = s.q.promoteDue(ctx)
	s.Require().NoError(err)
	s.Zero(n)

	counts, err := s.q.Counts(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts["wait"])
	s.Equal(int64(1), counts["repeat"])

	jobs, err := s.q.GetRepeatableJobs(ctx)
	s.Require().NoError(err)
	s.Equal(time.Date(2024, 5, 1, 10, 0, 3, 0, time.Local).UnixMilli(), jobs[0].Next)
}

func (s *RedisQueueSuite) TestPromoteDue_RemovedDefinition() {
	ctx := context.Background()
	_, err := s.q.Add(ctx, payload{JobId: 4}, s.repeatOpts("4:a.b", "* * * * * *"))
	s.Require().NoError(err)
	// 只删定义，留下触发时间
	s.Require().NoError(s.client.HDel(ctx, s.q.keys.repeatDefs, "4:a.b").Err())

	s.clock.Set(time.Date(2024, 5, 1, 10, 0, 5, 0, time.Local))
	n, err := s.q.promoteDue(ctx)
	s.Require().NoError(err)
	s.Zero(n)
	counts, err := s.q.Counts(ctx)
	s.Require().NoError(err)
	s.Zero(counts["repeat"])
}

func (s *RedisQueueSuite) TestAddJob_DedupAndPriority() {
	ctx := context.Background()
	_, err := s.q.Add(ctx, payload{JobId: 1}, queueX.JobOpts{JobId: "normal"})
	s.Require().NoError(err)
	_, err = s.q.Add(ctx, payload{JobId: 1}, queueX.JobOpts{JobId: "normal"})
	s.Require().NoError(err)
	_, err = s.q.Add(ctx, payload{JobId: 2}, queueX.JobOpts{Priority: 1, RemoveOnComplete: true})
	s.Require().NoError(err)

	counts, err := s.q.Counts(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts["wait"])
	s.Equal(int64(1), counts["prioritized"])

	job, ok, err := s.q.next(ctx)
	s.Require().NoError(err)
	s.Require().True(ok)
	var p payload
	s.Require().NoError(job.Unmarshal(&p))
	s.Equal(int64(2), p.JobId)
	s.Equal(1, job.Opts.Priority)

	job, ok, err = s.q.next(ctx)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal("normal", job.Id)

	_, ok, err = s.q.next(ctx)
	s.NoError(err)
	s.False(ok)
}

func (s *RedisQueueSuite) TestProcess_CompleteAndFail() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handled atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.q.Process(ctx, func(ctx context.Context, job queueX.Job) error {
			handled.Add(1)
			var p payload
			if err := job.Unmarshal(&p); err != nil {
				return err
			}
			if p.JobId < 0 {
				return errors.New("任务执行失败")
			}
			return nil
		})
	}()

	_, err := s.q.Add(ctx, payload{JobId: 1}, queueX.JobOpts{JobId: "ok", RemoveOnComplete: true})
	s.Require().NoError(err)
	for _, id := range []string{"f1", "f2", "f3"} {
		_, err = s.q.Add(ctx, payload{JobId: -1}, queueX.JobOpts{JobId: id, RemoveOnFail: 2})
		s.Require().NoError(err)
	}

	s.Require().Eventually(func() bool { return handled.Load() == 4 }, 2*time.Second, 10*time.Millisecond)
	s.Require().Eventually(func() bool {
		counts, err := s.q.Counts(context.Background())
		return err == nil && counts["failed"] == 2
	}, 2*time.Second, 10*time.Millisecond)

	s.Eventually(func() bool { return !s.mr.Exists(s.q.keys.job("ok")) }, 2*time.Second, 10*time.Millisecond)
	reason, err := s.q.FailedReason(context.Background(), "f3")
	s.NoError(err)
	s.Equal("任务执行失败", reason)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("Process 未退出")
	}
}

func TestRedisQueueSuite(t *testing.T) {
	suite.Run(t, new(RedisQueueSuite))
}

func TestRedisQueue_CloseStopsProcess(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	q := NewRedisQueue(client, "close", logx.NewNopLogger(), WithPollInterval(10*time.Millisecond))
	require.NoError(t, q.Ping(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- q.Process(context.Background(), func(ctx context.Context, job queueX.Job) error { return nil })
	}()
	time.Sleep(30 * time.Millisecond)
	assert.NoError(t, q.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close 未停止 Process")
	}
}
