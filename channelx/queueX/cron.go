package queueX

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser 秒位可选，兼容 "0/10 * * * * ?" 与五位标准表达式，以及 @every/@daily 描述符
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron 解析 cron 表达式
func ParseCron(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("cron 表达式为空")
	}
	if fields := strings.Fields(expr); len(fields) == 7 {
		// Quartz 七位表达式带年份，只接受不限年份
		if year := fields[6]; year != "*" && year != "?" {
			return nil, fmt.Errorf("cron 表达式 %q 非法: 不支持指定年份 %s", expr, year)
		}
		expr = strings.Join(fields[:6], " ")
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("cron 表达式 %q 非法: %w", expr, err)
	}
	return sched, nil
}

// IsValidCron 校验 cron 表达式
func IsValidCron(expr string) bool {
	_, err := ParseCron(expr)
	return err == nil
}

// NextTime 计算 from 之后的下一次触发时间，表达式非法或永不触发时返回零值
func NextTime(expr string, from time.Time) time.Time {
	sched, err := ParseCron(expr)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(from)
}

// RepeatKey 重复任务 key，显式指定 key 时直接使用
func RepeatKey(jobId string, repeat RepeatOpts) string {
	if repeat.Key != "" {
		return repeat.Key
	}
	return jobId + "::" + repeat.Cron
}
