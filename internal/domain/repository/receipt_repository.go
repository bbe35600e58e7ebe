package repository

import (
	"context"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/domain/enum"
)

// ReceiptFilter narrows register listings. Zero values mean "no filter".
type ReceiptFilter struct {
	From   *time.Time
	To     *time.Time
	Status *enum.ReceiptStatus
}

// ReceiptRepository persists the receipt collection. The collection is kept
// newest-first, matching the register's display order.
type ReceiptRepository interface {
	// All returns every receipt, newest first.
	All(ctx context.Context) ([]entity.Receipt, error)

	// List returns receipts matching the filter, newest first.
	List(ctx context.Context, filter ReceiptFilter) ([]entity.Receipt, error)

	// GetByID returns the receipt with the given id, or nil if absent.
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)

	// GetByNumber returns the receipt with the given display number, or nil.
	GetByNumber(ctx context.Context, number string) (*entity.Receipt, error)

	// Insert prepends a new receipt to the collection.
	Insert(ctx context.Context, receipt *entity.Receipt) error

	// Update replaces the stored receipt with the same id.
	Update(ctx context.Context, receipt *entity.Receipt) error

	// AllocateNumber advances the persisted per-year counter and returns the
	// next display number in NNNN-YYYY form. Allocation is atomic: two calls
	// never return the same number, even if a receipt insert later fails
	// (gaps are acceptable, duplicates are not).
	AllocateNumber(ctx context.Context, year int) (string, error)
}
