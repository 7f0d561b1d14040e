package dto

type ProductFilters struct {
	Category    string
	SearchQuery string // matched against name and description
	SortBy      string // name, price, quantity, created_at
	SortOrder   string // asc, desc
}
