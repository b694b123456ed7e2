// Package dbPrometheusx gorm 插件，按操作类型与表统计 SQL 耗时
package dbPrometheusx

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const startKey = "prometheus:start_time"

// Callbacks sql语句执行时间
type Callbacks struct {
	vector *prometheus.SummaryVec
}

type PrometheusSummaryOpts prometheus.SummaryOpts

// NewCallbacks 重复注册时复用已注册的 collector
func NewCallbacks(conf PrometheusSummaryOpts) *Callbacks {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts(conf), []string{"type", "table"})
	if err := prometheus.Register(vector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		vector = are.ExistingCollector.(*prometheus.SummaryVec)
	}
	return &Callbacks{vector: vector}
}

func (c *Callbacks) before() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(startKey, time.Now())
	}
}

func (c *Callbacks) after(typ string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		val, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := val.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		c.vector.WithLabelValues(typ, table).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func (c *Callbacks) Name() string {
	return "gormDbPrometheus"
}

type register func(name string, fn func(*gorm.DB)) error

func (c *Callbacks) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		typ           string
		before, after register
	}{
		{"CREATE", cb.Create().Before("*").Register, cb.Create().After("*").Register},
		{"QUERY", cb.Query().Before("*").Register, cb.Query().After("*").Register},
		{"UPDATE", cb.Update().Before("*").Register, cb.Update().After("*").Register},
		{"DELETE", cb.Delete().Before("*").Register, cb.Delete().After("*").Register},
		{"RAW", cb.Raw().Before("*").Register, cb.Raw().After("*").Register},
		{"ROW", cb.Row().Before("*").Register, cb.Row().After("*").Register},
	}
	for _, h := range hooks {
		if err := h.before("prometheus_gorm_before_"+h.typ, c.before()); err != nil {
			return err
		}
		if err := h.after("prometheus_gorm_after_"+h.typ, c.after(h.typ)); err != nil {
			return err
		}
	}
	return nil
}
