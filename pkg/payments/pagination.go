package payments

// Pagination is the derived state of the pagination controls for one page.
type Pagination struct {
	Page          int
	TotalPages    int
	CanGoPrevious bool
	CanGoNext     bool
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Derive computes the pagination controls for currentPage.
func Derive(total, pageSize, currentPage int) Pagination {
	totalPages := TotalPages(total, pageSize)
	return Pagination{
		Page:          currentPage,
		TotalPages:    totalPages,
		CanGoPrevious: currentPage > 1,
		CanGoNext:     currentPage < totalPages,
	}
}

// Visible reports whether the controls render at all. With no payments on the
// page or a single page there is nothing to show, not even disabled buttons.
func (p Pagination) Visible(paymentsOnPage int) bool {
	return paymentsOnPage > 0 && p.TotalPages > 1
}

// NextPage advances f by one page, clamped to totalPages.
func NextPage(f Filters, totalPages int) Filters {
	f.Page = min(totalPages, f.Page+1)
	return f
}

// PreviousPage moves f back one page, clamped to 1.
func PreviousPage(f Filters) Filters {
	f.Page = max(1, f.Page-1)
	return f
}

// ForResponse derives the pagination controls for the page f shows out of
// resp. The page size comes from the committed filters, as the server echo may
// be absent.
func ForResponse(f Filters, resp *SearchResponse) Pagination {
	if resp == nil {
		return Derive(0, f.PageSize, f.Page)
	}
	return Derive(resp.Total, f.PageSize, f.Page)
}
