package dto

type AlertFilters struct {
	// IncludeResolved lists every alert instead of only the open ones.
	IncludeResolved bool
	ProductID       int64
}
