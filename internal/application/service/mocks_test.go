package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	domainRepo "github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/upstream"
)

// fakeReceiptRepo is an in-memory ReceiptRepository, newest first like the
// real one.
type fakeReceiptRepo struct {
	receipts []entity.Receipt
	counters map[int]int
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{counters: map[int]int{}}
}

func (f *fakeReceiptRepo) All(ctx context.Context) ([]entity.Receipt, error) {
	out := make([]entity.Receipt, len(f.receipts))
	copy(out, f.receipts)
	return out, nil
}

func (f *fakeReceiptRepo) List(ctx context.Context, filter domainRepo.ReceiptFilter) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, r := range f.receipts {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.From != nil && r.IssuedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.IssuedAt.After(filter.To.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	for i := range f.receipts {
		if f.receipts[i].ID == id {
			r := f.receipts[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) GetByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	for i := range f.receipts {
		if f.receipts[i].Number == number {
			r := f.receipts[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) Insert(ctx context.Context, receipt *entity.Receipt) error {
	f.receipts = append([]entity.Receipt{*receipt}, f.receipts...)
	return nil
}

func (f *fakeReceiptRepo) Update(ctx context.Context, receipt *entity.Receipt) error {
	for i := range f.receipts {
		if f.receipts[i].ID == receipt.ID {
			f.receipts[i] = *receipt
			return nil
		}
	}
	return fmt.Errorf("receipt %s not in collection", receipt.ID)
}

func (f *fakeReceiptRepo) AllocateNumber(ctx context.Context, year int) (string, error) {
	f.counters[year]++
	return fmt.Sprintf("%04d-%d", f.counters[year], year), nil
}

// fakeSettingsRepo holds settings in memory.
type fakeSettingsRepo struct {
	settings     domainRepo.Settings
	sessionStart time.Time
}

func configuredSettings() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: domainRepo.Settings{
		Token:       "tok",
		Environment: "sandbox",
		Merchant:    entity.Merchant{PartitaIVA: "01234567890"},
	}}
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (domainRepo.Settings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) Save(ctx context.Context, s domainRepo.Settings) error {
	f.settings = s
	return nil
}

func (f *fakeSettingsRepo) SessionStart(ctx context.Context) (time.Time, error) {
	return f.sessionStart, nil
}

func (f *fakeSettingsRepo) SetSessionStart(ctx context.Context, t time.Time) error {
	f.sessionStart = t
	return nil
}

func (f *fakeSettingsRepo) ClearSession(ctx context.Context) error {
	f.sessionStart = time.Time{}
	return nil
}

// fakeSubmitter scripts upstream outcomes per call.
type fakeSubmitter struct {
	createResult *upstream.Result
	createErr    error
	refundResult *upstream.Result
	refundErr    error
	voidResult   *upstream.Result
	voidErr      error
	listResult   *upstream.Result
	listErr      error
	checkResult  *upstream.Result

	createCalls int
	refundCalls int
	voidCalls   int
	listCalls   int
}

func okResult(body string) *upstream.Result {
	return &upstream.Result{OK: true, Status: http.StatusOK, Body: json.RawMessage(body)}
}

func failResult(status int, body string) *upstream.Result {
	return &upstream.Result{OK: false, Status: status, Body: json.RawMessage(body)}
}

func (f *fakeSubmitter) CreateReceipt(ctx context.Context, env upstream.Environment, token string, payload upstream.ReceiptPayload) (*upstream.Result, error) {
	f.createCalls++
	return f.createResult, f.createErr
}

func (f *fakeSubmitter) RefundReceipt(ctx context.Context, env upstream.Environment, token, receiptID string, payload upstream.RefundPayload) (*upstream.Result, error) {
	f.refundCalls++
	return f.refundResult, f.refundErr
}

func (f *fakeSubmitter) VoidReceipt(ctx context.Context, env upstream.Environment, token, receiptID string) (*upstream.Result, error) {
	f.voidCalls++
	return f.voidResult, f.voidErr
}

func (f *fakeSubmitter) ListReceipts(ctx context.Context, env upstream.Environment, token string) (*upstream.Result, error) {
	f.listCalls++
	return f.listResult, f.listErr
}

func (f *fakeSubmitter) CheckConfiguration(ctx context.Context, env upstream.Environment, token string) (*upstream.Result, error) {
	return f.checkResult, nil
}
