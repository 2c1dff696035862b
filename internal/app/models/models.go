package models

// Sort order applied to a student table by exam marks.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
	SortNone SortOrder = "none"
)

// Next returns the order that follows o when the marks header is clicked:
// asc -> desc -> none -> asc.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortNone
	default:
		return SortAsc
	}
}

// ParseSortOrder reads a query value, falling back to def for unknown input.
func ParseSortOrder(value string, def SortOrder) SortOrder {
	switch SortOrder(value) {
	case SortAsc, SortDesc, SortNone:
		return SortOrder(value)
	default:
		return def
	}
}
