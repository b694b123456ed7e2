// Package syncX 并发安全容器
package syncX

import "sync"

// Map sync.Map 的泛型版本，LocalQueue 用它保存 重复 key -> cron 条目
type Map[K comparable, V any] struct {
	m sync.Map
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	return cast[V](m.m.Load(key))
}

func (m *Map[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// LoadAndDelete 替换或移除条目时取出旧值
func (m *Map[K, V]) LoadAndDelete(key K) (V, bool) {
	return cast[V](m.m.LoadAndDelete(key))
}

// Range f 返回 false 中断遍历
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(key, value any) bool {
		v, _ := value.(V)
		return f(key.(K), v)
	})
}

// Len 遍历计数，不是原子快照
func (m *Map[K, V]) Len() int {
	n := 0
	m.Range(func(K, V) bool {
		n++
		return true
	})
	return n
}

func cast[V any](val any, ok bool) (V, bool) {
	v, _ := val.(V)
	return v, ok
}
