package domain

import (
	"context"
	"time"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	Get(ctx context.Context, id string) (*Purchase, error)
	List(ctx context.Context, filter PurchaseFilter) ([]*Purchase, error)
	Update(ctx context.Context, purchase *Purchase) error
	Delete(ctx context.Context, id string) error
	Totals(ctx context.Context) (*PurchaseTotals, error)
	Close() error
}

// PageFetcher retrieves the raw markup of a web page.
// Failures are *ExtractionError values of kind ErrFetchTimeout, ErrNetwork or ErrUpstream.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (string, error)
}
