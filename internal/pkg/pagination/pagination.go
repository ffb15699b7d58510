package pagination

// Page is the envelope every paginated listing returns.
type Page struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	PerPage     int         `json:"per_page"`
	Total       int         `json:"total"`
}

// New builds a Page from a result slice and the total row count.
func New(data interface{}, page, perPage, total int) *Page {
	if page < 1 {
		page = 1
	}
	last := 1
	if perPage > 0 {
		last = (total + perPage - 1) / perPage
	}
	if last < 1 {
		last = 1
	}
	return &Page{
		Data:        data,
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
}

// Offset converts a 1-based page into a SQL offset.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
