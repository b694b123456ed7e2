package redisQueuex

// 所有 key 以 "ry:queue:{name}:" 为前缀，同一个 redis 可承载多个队列
const keyPrefix = "ry:queue:"

type keys struct {
	repeat      string // ZSET 重复任务 key -> 下次触发毫秒时间戳
	repeatDefs  string // HASH 重复任务 key -> 定义 JSON
	wait        string // ZSET 普通任务 id -> 入队毫秒时间戳
	prioritized string // ZSET 优先任务 id -> priority*priorityWeight + 入队时间
	completed   string // ZSET 保留的成功任务
	failed      string // ZSET 保留的失败任务
	jobPrefix   string // HASH 任务实体 job:{id}
}

func newKeys(name string) keys {
	p := keyPrefix + name + ":"
	return keys{
		repeat:      p + "repeat",
		repeatDefs:  p + "repeat:defs",
		wait:        p + "wait",
		prioritized: p + "prioritized",
		completed:   p + "completed",
		failed:      p + "failed",
		jobPrefix:   p + "job:",
	}
}

func (k keys) job(id string) string { return k.jobPrefix + id }
