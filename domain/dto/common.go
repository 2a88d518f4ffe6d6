package dto

// PageQuery is embedded by every list query.
type PageQuery struct {
	Page      int    `query:"page" json:"page" validate:"min=1,max=100000"`
	Limit     int    `query:"limit" json:"limit" validate:"min=1,max=100"`
	SortOrder string `query:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q *PageQuery) ApplyDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func (q PageQuery) Desc() bool {
	return q.SortOrder != "asc"
}

type IDParams struct {
	ID string `params:"id" json:"id" validate:"required,objectid"`
}
