package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/domain/enum"
	"github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/upstream"
	"github.com/corrispettivi/registro-api/pkg/apperror"
	"github.com/corrispettivi/registro-api/pkg/money"
)

// SyncService reconciles the remote receipt collection into the local ledger.
// The merge is idempotent: records whose id is already known locally are
// skipped, and local status is never overwritten by remote state (local
// history is authoritative for items already recorded).
type SyncService struct {
	receiptRepo  repository.ReceiptRepository
	settingsRepo repository.SettingsRepository
	submitter    SubmissionClient
	logger       *zap.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(
	receiptRepo repository.ReceiptRepository,
	settingsRepo repository.SettingsRepository,
	submitter SubmissionClient,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		submitter:    submitter,
		logger:       logger,
	}
}

// SyncSummary reports the outcome of a merge pass.
type SyncSummary struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Sync pulls the remote receipt collection and merges it into the ledger.
func (s *SyncService) Sync(ctx context.Context) (*SyncSummary, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Token == "" {
		return nil, apperror.ErrNotConfigured
	}

	result, err := s.submitter.ListReceipts(ctx, upstream.ParseEnvironment(settings.Environment), settings.Token)
	if err != nil {
		return nil, apperror.NewRemoteError(err.Error())
	}
	if !result.OK {
		return nil, apperror.NewRemoteError(result.ErrorMessage())
	}

	records, err := decodeRecordList(result.Body)
	if err != nil {
		return nil, apperror.NewTranslationError(err.Error())
	}

	return s.MergeRecords(ctx, records)
}

// MergeRecords applies a batch of remote records. A single malformed record
// never fails the batch: it is counted and skipped.
func (s *SyncService) MergeRecords(ctx context.Context, records []json.RawMessage) (*SyncSummary, error) {
	existing, err := s.receiptRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, rec := range existing {
		known[rec.ID] = true
	}

	summary := &SyncSummary{}
	for _, raw := range records {
		receipt, terr := translateRemoteRecord(raw)
		if terr != nil {
			summary.Failed++
			s.logger.Warn("Skipping unparseable remote record", zap.Error(terr))
			continue
		}
		if known[receipt.ID] {
			summary.Skipped++
			continue
		}
		if err := s.receiptRepo.Insert(ctx, receipt); err != nil {
			return summary, err
		}
		known[receipt.ID] = true
		summary.Added++
	}

	s.logger.Info("Remote merge completed",
		zap.Int("added", summary.Added),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// decodeRecordList accepts either a bare JSON array or an envelope with a
// "data" (or "receipts") field, the two shapes the upstream list endpoint
// is known to produce.
func decodeRecordList(body json.RawMessage) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}
	var envelope struct {
		Data     []json.RawMessage `json:"data"`
		Receipts []json.RawMessage `json:"receipts"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Receipts, nil
}

// remoteReceipt mirrors the upstream record shape. Several fields have a
// documented fallback: Number falls back to DocumentNumber, Date to
// CreatedAt, TotalAmount to Amount; item amounts fall back to
// unit_price * quantity; a missing VAT rate defaults to the standard rate.
type remoteReceipt struct {
	ID             string       `json:"id"`
	ReceiptID      string       `json:"receipt_id"`
	Number         string       `json:"number"`
	DocumentNumber string       `json:"document_number"`
	Date           string       `json:"date"`
	CreatedAt      string       `json:"created_at"`
	Items          []remoteItem `json:"items"`
	PaymentMethod  string       `json:"payment_method"`
	TotalAmount    *float64     `json:"total_amount"`
	Amount         *float64     `json:"amount"`
}

type remoteItem struct {
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	VATRate     *int     `json:"vat_rate"`
	Amount      *float64 `json:"amount"`
}

// translateRemoteRecord converts an upstream record to the local receipt
// shape, deriving net/VAT per line by scorporo.
func translateRemoteRecord(raw json.RawMessage) (*entity.Receipt, error) {
	var remote remoteReceipt
	if err := json.Unmarshal(raw, &remote); err != nil {
		return nil, apperror.NewTranslationError(err.Error())
	}

	id := remote.ID
	if id == "" {
		id = remote.ReceiptID
	}
	if id == "" {
		return nil, apperror.NewTranslationError("record has no id")
	}

	number := remote.Number
	if number == "" {
		number = remote.DocumentNumber
	}
	if number == "" {
		// Synthetic display number so the record remains addressable.
		number = "SYNC-" + shortID(id)
	}

	issuedAt, err := parseRemoteDate(remote.Date, remote.CreatedAt)
	if err != nil {
		return nil, apperror.NewTranslationError("record " + id + ": " + err.Error())
	}

	items := make([]entity.LineItem, 0, len(remote.Items))
	var itemsTotal money.Cents
	for _, ri := range remote.Items {
		item, err := translateRemoteItem(ri)
		if err != nil {
			return nil, apperror.NewTranslationError("record " + id + ": " + err.Error())
		}
		items = append(items, *item)
		itemsTotal += item.Gross
	}

	total := itemsTotal
	if remote.TotalAmount != nil {
		total = money.FromFloat(*remote.TotalAmount)
	} else if remote.Amount != nil {
		total = money.FromFloat(*remote.Amount)
	}

	return &entity.Receipt{
		ID:             id,
		Number:         number,
		IssuedAt:       issuedAt,
		Items:          items,
		PaymentMethod:  enum.ParsePaymentMethod(remote.PaymentMethod),
		Total:          total,
		Status:         enum.StatusIssued,
		Kind:           enum.KindSale,
		RemoteResponse: raw,
	}, nil
}

func translateRemoteItem(ri remoteItem) (*entity.LineItem, error) {
	if ri.Description == "" {
		return nil, apperror.NewTranslationError("item has no description")
	}

	quantity := 1
	if ri.Quantity != nil && *ri.Quantity > 0 {
		quantity = *ri.Quantity
	}

	rate := enum.DefaultVATRate
	if ri.VATRate != nil {
		rate = enum.VATRate(*ri.VATRate)
		if !rate.IsValid() {
			rate = enum.DefaultVATRate
		}
	}

	var gross money.Cents
	switch {
	case ri.Amount != nil:
		gross = money.FromFloat(*ri.Amount)
	case ri.UnitPrice != nil:
		gross = money.FromFloat(*ri.UnitPrice) * money.Cents(quantity)
	default:
		return nil, apperror.NewTranslationError("item has neither amount nor unit_price")
	}

	net, vat := money.NetFromGross(gross, rate.Percent())
	return &entity.LineItem{
		ID:          uuid.New().String(),
		Description: ri.Description,
		Quantity:    quantity,
		VATRate:     rate,
		Gross:       gross,
		Net:         net,
		VAT:         vat,
	}, nil
}

func parseRemoteDate(date, createdAt string) (time.Time, error) {
	candidates := []string{date, createdAt}
	layouts := []string{time.RFC3339, time.DateOnly, "2006-01-02 15:04:05"}
	for _, value := range candidates {
		if value == "" {
			continue
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
				return t, nil
			}
		}
	}
	if date == "" && createdAt == "" {
		return time.Now(), nil
	}
	return time.Time{}, apperror.NewTranslationError("unparseable date")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
