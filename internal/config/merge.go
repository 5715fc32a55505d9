package config

// lastByName drops every item whose name appears again later in the
// list, so the last occurrence wins with both its value and position.
func lastByName[T any](items []T, name func(T) string) []T {
	last := make(map[string]int, len(items))
	for i, it := range items {
		last[name(it)] = i
	}
	out := make([]T, 0, len(last))
	for i, it := range items {
		if last[name(it)] == i {
			out = append(out, it)
		}
	}
	return out
}
