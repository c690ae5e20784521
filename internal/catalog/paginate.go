package catalog

// Page is one window of the final result list.
type Page struct {
	Items  []Scored `json:"items"`
	Number int      `json:"page"`
	Size   int      `json:"pageSize"`
	Total  int      `json:"total"`
	Pages  int      `json:"pages"`
}

// Paginate returns the 1-based page of items. A size of zero or less puts
// everything on one page. Out-of-range page numbers are clamped.
func Paginate(items []Scored, page, size int) Page {
	total := len(items)
	if size <= 0 {
		size = max(total, 1)
	}
	pages := max((total+size-1)/size, 1)
	page = min(max(page, 1), pages)

	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Page{
		Items:  append([]Scored{}, items[start:end]...),
		Number: page,
		Size:   size,
		Total:  total,
		Pages:  pages,
	}
}
