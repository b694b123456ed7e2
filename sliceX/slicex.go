package sliceX

// Map 切片元素转换，dao 实体 <-> domain 对象
func Map[Src any, Dst any](src []Src, fn func(idx int, s Src) Dst) []Dst {
	dst := make([]Dst, len(src))
	for i, s := range src {
		dst[i] = fn(i, s)
	}
	return dst
}

// Filter 保留 fn 返回 true 的元素
func Filter[T any](src []T, fn func(idx int, s T) bool) []T {
	res := make([]T, 0, len(src))
	for i, s := range src {
		if fn(i, s) {
			res = append(res, s)
		}
	}
	return res
}

// Find 返回第一个满足条件的元素
func Find[T any](src []T, fn func(s T) bool) (T, bool) {
	for _, s := range src {
		if fn(s) {
			return s, true
		}
	}
	var zero T
	return zero, false
}
