package engine

// DefaultPageSize is the number of candidates shown per page.
const DefaultPageSize = 6

// pageCount returns ceil(n/size), at least 1 so an empty set still has a
// page zero.
func pageCount(n, size int) int {
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// clampPage bounds a page index to the valid range for n candidates.
func clampPage(page, n, size int) int {
	if page < 0 {
		return 0
	}
	if max := pageCount(n, size) - 1; page > max {
		return max
	}
	return page
}

// pageSlice returns the candidates visible on a page. The slice aliases
// cands; callers must not modify it.
func pageSlice(cands []string, page, size int) []string {
	page = clampPage(page, len(cands), size)
	start := page * size
	if start >= len(cands) {
		return nil
	}
	end := start + size
	if end > len(cands) {
		end = len(cands)
	}
	return cands[start:end]
}
