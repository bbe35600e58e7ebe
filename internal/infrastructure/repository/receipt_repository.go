package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	domainRepo "github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/database"
)

// Persisted-state keys, carried over unchanged from the register's original
// storage layout.
const (
	keyReceipts      = "scontrini"
	keyCounterPrefix = "numeratore:"
)

type receiptRepository struct {
	store *database.Store

	// The whole collection is rewritten on every mutation, so writes are
	// serialized. The ledger has a single logical writer; the mutex guards
	// against overlapping HTTP requests.
	mu sync.Mutex
}

// NewReceiptRepository creates a receipt repository over the key/value store
func NewReceiptRepository(store *database.Store) domainRepo.ReceiptRepository {
	return &receiptRepository{store: store}
}

func (r *receiptRepository) load(ctx context.Context) ([]entity.Receipt, error) {
	raw, ok, err := r.store.Get(ctx, keyReceipts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []entity.Receipt{}, nil
	}
	var receipts []entity.Receipt
	if err := json.Unmarshal([]byte(raw), &receipts); err != nil {
		return nil, fmt.Errorf("corrupt receipts collection: %w", err)
	}
	return receipts, nil
}

func (r *receiptRepository) save(ctx context.Context, receipts []entity.Receipt) error {
	raw, err := json.Marshal(receipts)
	if err != nil {
		return fmt.Errorf("failed to encode receipts collection: %w", err)
	}
	return r.store.Put(ctx, keyReceipts, string(raw))
}

func (r *receiptRepository) All(ctx context.Context) ([]entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *receiptRepository) List(ctx context.Context, filter domainRepo.ReceiptFilter) ([]entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Receipt, 0, len(receipts))
	for _, rec := range receipts {
		if filter.From != nil && rec.IssuedAt.Before(startOfDay(*filter.From)) {
			continue
		}
		if filter.To != nil && !rec.IssuedAt.Before(startOfNextDay(*filter.To)) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range receipts {
		if receipts[i].ID == id {
			return &receipts[i], nil
		}
	}
	return nil, nil
}

func (r *receiptRepository) GetByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range receipts {
		if receipts[i].Number == number {
			return &receipts[i], nil
		}
	}
	return nil, nil
}

func (r *receiptRepository) Insert(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts, err := r.load(ctx)
	if err != nil {
		return err
	}
	// Newest first.
	receipts = append([]entity.Receipt{*receipt}, receipts...)
	return r.save(ctx, receipts)
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range receipts {
		if receipts[i].ID == receipt.ID {
			receipts[i] = *receipt
			return r.save(ctx, receipts)
		}
	}
	return fmt.Errorf("receipt %s not in collection", receipt.ID)
}

func (r *receiptRepository) AllocateNumber(ctx context.Context, year int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyCounterPrefix + strconv.Itoa(year)
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	counter := 0
	if ok {
		if counter, err = strconv.Atoi(raw); err != nil {
			return "", fmt.Errorf("corrupt counter for year %d: %w", year, err)
		}
	}
	counter++

	if err := r.store.Put(ctx, key, strconv.Itoa(counter)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%d", counter, year), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func startOfNextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}
