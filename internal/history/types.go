package history

// Entry represents a recorded search.
type Entry struct {
	ID          int64  `json:"id"`
	Query       string `json:"query"`
	ResultCount int    `json:"resultCount"`
	ExactCount  int    `json:"exactCount"`
	CreatedAt   string `json:"createdAt"`
}

// ListOptions contains options for listing history.
type ListOptions struct {
	Page     int
	PageSize int
}

// ListResponse contains paginated history results.
type ListResponse struct {
	Items      []*Entry `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalCount int64    `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
}

// TopQuery is an aggregated view of the most repeated searches.
type TopQuery struct {
	Query        string `json:"query"`
	Count        int64  `json:"count"`
	LastSearched string `json:"lastSearched"`
}
