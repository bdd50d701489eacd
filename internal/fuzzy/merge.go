package fuzzy

// extendSorted merges src into dst, both sorted so that cmp(a, b) < 0 means a
// comes first, and keeps at most limit elements. On ties elements of dst come
// first.
func extendSorted[T any](dst, src []T, limit int, cmp func(a, b T) int) []T {
	merged := make([]T, 0, min(len(dst)+len(src), limit))
	i, j := 0, 0
	for len(merged) < limit && (i < len(dst) || j < len(src)) {
		switch {
		case j >= len(src):
			merged = append(merged, dst[i])
			i++
		case i >= len(dst):
			merged = append(merged, src[j])
			j++
		case cmp(src[j], dst[i]) < 0:
			merged = append(merged, src[j])
			j++
		default:
			merged = append(merged, dst[i])
			i++
		}
	}
	return merged
}
