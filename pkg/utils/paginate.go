package utils

import "context"

// Page is one offset/limit slice of a paginated collection, carrying the
// server-reported window and total alongside the items.
type Page[T any] struct {
	Items  []T
	Offset int
	Limit  int
	Total  int
}

// Paginate walks an offset/limit collection endpoint from offset 0, handing
// every item to each. The loop stops once the reported window reaches or
// passes the reported total; a total of zero still fetches exactly one
// (empty) page. Any fetch or consumer error aborts immediately.
func Paginate[T any](ctx context.Context, limit int, fetch func(ctx context.Context, offset, limit int) (Page[T], error), each func(item T) error) error {
	offset := 0
	for {
		page, err := fetch(ctx, offset, limit)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			if err := each(item); err != nil {
				return err
			}
		}
		if page.Offset+page.Limit > page.Total {
			return nil
		}
		offset += limit
	}
}
