// Package dbLogx 把 gorm 的日志输出转到 logx.Loggerx
package dbLogx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/hgg_test/ry_admin/logx"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// GormLogx gorm 日志适配器
type GormLogx struct {
	// SlowThreshold 慢查询阈值，0 表示不记录慢查询
	SlowThreshold time.Duration
	// IgnoreRecordNotFound 查询为空不算错误【job 按 id 查询时经常出现】
	IgnoreRecordNotFound bool

	level glogger.LogLevel
	l     logx.Loggerx
}

// NewGormLogx
//   - gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: dbLogx.NewGormLogx(l, time.Second)})
func NewGormLogx(l logx.Loggerx, slowThreshold time.Duration) *GormLogx {
	return &GormLogx{
		SlowThreshold:        slowThreshold,
		IgnoreRecordNotFound: true,
		level:                glogger.Info,
		l:                    l.With(logx.String("component", "gorm")),
	}
}

func (g *GormLogx) LogMode(level glogger.LogLevel) glogger.Interface {
	ng := *g
	ng.level = level
	return &ng
}

func (g *GormLogx) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Info {
		g.l.Info(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogx) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Warn {
		g.l.Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogx) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Error {
		g.l.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace 出错记 error，慢查询记 warn，其余记 debug
func (g *GormLogx) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= glogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []logx.Field{
		logx.String("sql", sql),
		logx.Int64("rows", rows),
		logx.Int64("elapsed-ms", elapsed.Milliseconds()),
	}
	switch {
	case err != nil && g.level >= glogger.Error && !(g.IgnoreRecordNotFound && errors.Is(err, gorm.ErrRecordNotFound)):
		g.l.Error("SQL执行失败", append(fields, logx.Error(err))...)
	case g.SlowThreshold != 0 && elapsed > g.SlowThreshold && g.level >= glogger.Warn:
		g.l.Warn("慢SQL", append(fields, logx.TimeDuration("threshold", g.SlowThreshold))...)
	case g.level >= glogger.Info:
		g.l.Debug("SQL", fields...)
	}
}
