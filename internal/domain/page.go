package domain

// Sort directions accepted by PageRequest.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// sortColumns maps the accepted sort field names (transfer-shape spelling)
// to their stored column names. Restricting sorting to this set keeps
// arbitrary caller strings out of ORDER BY clauses.
var sortColumns = map[string]string{
	"id":          "id",
	"destination": "destination",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"price":       "price",
	"status":      "status",
}

// PageRequest carries validated paging and sorting parameters from the HTTP
// layer to the repo layer. Page is 0-indexed, matching the API's page query
// parameter. Build it through NewPageRequest so invalid input never reaches
// the repository.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction string
}

// NewPageRequest validates raw paging input. Empty sortField and direction
// fall back to "id" ascending. Invalid values are reported per parameter via
// a ValidationError rather than silently corrected.
func NewPageRequest(page, size int, sortField, direction string) (PageRequest, error) {
	fields := map[string]string{}

	if page < 0 {
		fields["page"] = "Page index must not be negative"
	}
	if size < 1 {
		fields["size"] = "Page size must be at least 1"
	}

	if sortField == "" {
		sortField = "id"
	}
	if _, ok := sortColumns[sortField]; !ok {
		fields["sort"] = "Sort field must be one of id, destination, startDate, endDate, price, status"
	}

	switch direction {
	case "":
		direction = SortAsc
	case SortAsc, SortDesc:
	default:
		fields["direction"] = "Sort direction must be \"asc\" or \"desc\""
	}

	if len(fields) > 0 {
		return PageRequest{}, &ValidationError{Fields: fields}
	}
	return PageRequest{Page: page, Size: size, SortField: sortField, Direction: direction}, nil
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// SortColumn returns the stored column name for the validated sort field.
func (p PageRequest) SortColumn() string {
	return sortColumns[p.SortField]
}

// Page is one slice of a larger ordered result set, together with the
// metadata a client needs to build pagination controls. Total is the element
// count of the full (filtered) result set, not the length of Content.
type Page[T any] struct {
	Content []T
	Page    int
	Size    int
	Total   int64
}
