package pagination

// Params represents offset-based pagination parameters
type Params struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"pageSize" form:"page_size"`
}

// Validate normalizes pagination parameters to safe bounds
func (p *Params) Validate() error {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20 // Default page size
	}

	return nil
}

// GetOffset returns the offset for the query
func (p *Params) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit returns the limit for the query
func (p *Params) GetLimit() int {
	return p.PageSize
}

// PageInfo represents page information
type PageInfo struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
}

// CreatePageInfo creates page info from result counts
func CreatePageInfo(currentPage, pageSize, totalRecords int) *PageInfo {
	totalPages := (totalRecords + pageSize - 1) / pageSize

	return &PageInfo{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
		HasNext:      currentPage < totalPages,
		HasPrevious:  currentPage > 1,
	}
}
