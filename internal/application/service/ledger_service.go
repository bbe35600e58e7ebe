package service

import (
	"context"
	"encoding/json"
	"math"
	"sync"
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

// SubmissionClient is the remote submission adapter: the ledger calls it as a
// black box and records whatever comes back.
type SubmissionClient interface {
	CreateReceipt(ctx context.Context, env upstream.Environment, token string, payload upstream.ReceiptPayload) (*upstream.Result, error)
	RefundReceipt(ctx context.Context, env upstream.Environment, token, receiptID string, payload upstream.RefundPayload) (*upstream.Result, error)
	VoidReceipt(ctx context.Context, env upstream.Environment, token, receiptID string) (*upstream.Result, error)
	ListReceipts(ctx context.Context, env upstream.Environment, token string) (*upstream.Result, error)
	CheckConfiguration(ctx context.Context, env upstream.Environment, token string) (*upstream.Result, error)
}

// LedgerService owns the receipt collection and the in-progress draft. All
// mutations go through here; callers hold a reference, there is no ambient
// state.
type LedgerService struct {
	receiptRepo  repository.ReceiptRepository
	settingsRepo repository.SettingsRepository
	submitter    SubmissionClient
	logger       *zap.Logger

	// now is swappable for tests.
	now func() time.Time

	mu    sync.Mutex
	draft []entity.LineItem
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	receiptRepo repository.ReceiptRepository,
	settingsRepo repository.SettingsRepository,
	submitter SubmissionClient,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		submitter:    submitter,
		logger:       logger,
		now:          time.Now,
	}
}

// AddDraftItemInput represents a draft line item as entered by the operator.
// GrossAmount is VAT inclusive, in decimal euros.
type AddDraftItemInput struct {
	Description string
	Quantity    int
	GrossAmount float64
	VATRate     int
}

// AddDraftItem validates and appends a line item to the current draft.
func (s *LedgerService) AddDraftItem(input AddDraftItemInput) (*entity.LineItem, error) {
	var fieldErrors []apperror.FieldError

	if input.Description == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "must not be empty"})
	}
	if input.GrossAmount <= 0 || math.IsNaN(input.GrossAmount) || math.IsInf(input.GrossAmount, 0) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "gross_amount", Message: "must be a positive amount"})
	}
	rate := enum.VATRate(input.VATRate)
	if !rate.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "vat_rate", Message: "must be one of 0, 4, 10, 22"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	gross := money.FromFloat(input.GrossAmount)
	net, vat := money.NetFromGross(gross, rate.Percent())

	item := entity.LineItem{
		ID:          uuid.New().String(),
		Description: input.Description,
		Quantity:    quantity,
		VATRate:     rate,
		Gross:       gross,
		Net:         net,
		VAT:         vat,
	}

	s.mu.Lock()
	s.draft = append(s.draft, item)
	s.mu.Unlock()

	return &item, nil
}

// RemoveDraftItem drops an item from the draft. Removing an unknown id is an
// idempotent no-op.
func (s *LedgerService) RemoveDraftItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.draft {
		if item.ID == itemID {
			s.draft = append(s.draft[:i], s.draft[i+1:]...)
			return
		}
	}
}

// DraftTotals summarizes the in-progress receipt.
type DraftTotals struct {
	Net   money.Cents `json:"net"`
	VAT   money.Cents `json:"vat"`
	Total money.Cents `json:"total"`
}

// Draft returns a copy of the current draft items and their totals.
func (s *LedgerService) Draft() ([]entity.LineItem, DraftTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entity.LineItem, len(s.draft))
	copy(items, s.draft)

	var totals DraftTotals
	for _, item := range items {
		totals.Net += item.Net
		totals.VAT += item.VAT
		totals.Total += item.Gross
	}
	return items, totals
}

// clearDraft resets the draft after an issue attempt, successful or not; the
// attempt is recorded on the ledger either way.
func (s *LedgerService) clearDraft() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// Issue turns the current draft into a receipt. The receipt is persisted as
// pending before the upstream call, so a crash mid-submission leaves a
// recoverable record rather than a lost one; the upstream outcome then moves
// it to issued or error.
func (s *LedgerService) Issue(ctx context.Context, paymentMethod enum.PaymentMethod) (*entity.Receipt, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Configured() {
		return nil, apperror.ErrNotConfigured
	}

	items, totals := s.Draft()
	if len(items) == 0 {
		return nil, apperror.ErrEmptyReceipt
	}
	if !paymentMethod.IsValid() {
		paymentMethod = enum.PaymentCash
	}

	issuedAt := s.now()
	number, err := s.receiptRepo.AllocateNumber(ctx, issuedAt.Local().Year())
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		ID:            uuid.New().String(),
		Number:        number,
		IssuedAt:      issuedAt,
		Items:         items,
		PaymentMethod: paymentMethod,
		Total:         totals.Total,
		Status:        enum.StatusPending,
		Kind:          enum.KindSale,
	}

	// First phase: durable pending record.
	if err := s.receiptRepo.Insert(ctx, receipt); err != nil {
		return nil, err
	}
	s.clearDraft()

	// Second phase: upstream submission.
	payload := buildReceiptPayload(settings.Merchant.FiscalID(), receipt)
	result, err := s.submitter.CreateReceipt(ctx, upstream.ParseEnvironment(settings.Environment), settings.Token, payload)

	switch {
	case err != nil:
		receipt.Status = enum.StatusError
		receipt.RemoteResponse = mustJSONString(err.Error())
		s.logger.Warn("Receipt submission failed",
			zap.String("number", receipt.Number), zap.Error(err))
	case !result.OK:
		receipt.Status = enum.StatusError
		receipt.RemoteResponse = result.Body
		s.logger.Warn("Receipt rejected by upstream",
			zap.String("number", receipt.Number), zap.Int("status", result.Status))
	default:
		receipt.Status = enum.StatusIssued
		receipt.RemoteResponse = result.Body
		s.logger.Info("Receipt issued",
			zap.String("number", receipt.Number), zap.String("total", receipt.Total.String()))
	}

	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Refund applies a partial refund (reso) against the selected items of an
// issued receipt. On upstream success it appends a companion record with a
// negative total; the original receipt is never modified.
func (s *LedgerService) Refund(ctx context.Context, receiptID string, itemIDs []string) (*entity.Receipt, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Configured() {
		return nil, apperror.ErrNotConfigured
	}

	original, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if original.Status != enum.StatusIssued || original.IsRefund() {
		return nil, apperror.ErrInvalidStatus
	}

	selected := selectItems(original.Items, itemIDs)
	if len(selected) == 0 {
		return nil, apperror.ErrEmptySelection
	}

	var refundTotal money.Cents
	for _, item := range selected {
		refundTotal += item.Gross
	}

	payload := upstream.RefundPayload{
		OriginalReceiptID: original.ID,
		Items:             buildItemPayloads(selected),
		RefundAmount:      refundTotal.Float64(),
	}

	env := upstream.ParseEnvironment(settings.Environment)
	result, err := s.submitter.RefundReceipt(ctx, env, settings.Token, original.ID, payload)
	if err != nil {
		return nil, apperror.NewRemoteError(err.Error())
	}
	if !result.OK {
		return nil, apperror.NewRemoteError(result.ErrorMessage())
	}

	issuedAt := s.now()
	number, err := s.receiptRepo.AllocateNumber(ctx, issuedAt.Local().Year())
	if err != nil {
		return nil, err
	}

	refund := &entity.Receipt{
		ID:             uuid.New().String(),
		Number:         number + "-R",
		IssuedAt:       issuedAt,
		Items:          selected,
		PaymentMethod:  original.PaymentMethod,
		Total:          -refundTotal,
		Status:         enum.StatusIssued,
		Kind:           enum.KindRefund,
		OriginalNumber: original.Number,
		RemoteResponse: result.Body,
	}

	if err := s.receiptRepo.Insert(ctx, refund); err != nil {
		return nil, err
	}

	s.logger.Info("Refund recorded",
		zap.String("number", refund.Number),
		zap.String("original", original.Number),
		zap.String("amount", refundTotal.String()))
	return refund, nil
}

// Void cancels an issued receipt in full (annullamento). Unlike a partial
// refund, the receipt itself transitions to voided in place: the obligation
// is cancelled entirely, so no companion record is needed.
func (s *LedgerService) Void(ctx context.Context, receiptID string) (*entity.Receipt, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Configured() {
		return nil, apperror.ErrNotConfigured
	}

	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if !receipt.Status.CanTransitionTo(enum.StatusVoided) {
		return nil, apperror.ErrInvalidStatus
	}

	env := upstream.ParseEnvironment(settings.Environment)
	result, err := s.submitter.VoidReceipt(ctx, env, settings.Token, receipt.ID)
	if err != nil {
		return nil, apperror.NewRemoteError(err.Error())
	}
	if !result.OK {
		return nil, apperror.NewRemoteError(result.ErrorMessage())
	}

	receipt.Status = enum.StatusVoided
	receipt.RemoteResponse = result.Body
	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}

	s.logger.Info("Receipt voided", zap.String("number", receipt.Number))
	return receipt, nil
}

// Get returns a receipt by id.
func (s *LedgerService) Get(ctx context.Context, id string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// FindByNumber returns a receipt by its display number.
func (s *LedgerService) FindByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// List returns receipts matching the filter, newest first.
func (s *LedgerService) List(ctx context.Context, filter repository.ReceiptFilter) ([]entity.Receipt, error) {
	return s.receiptRepo.List(ctx, filter)
}

func selectItems(items []entity.LineItem, ids []string) []entity.LineItem {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var selected []entity.LineItem
	for _, item := range items {
		if wanted[item.ID] {
			selected = append(selected, item)
		}
	}
	return selected
}

func buildItemPayloads(items []entity.LineItem) []upstream.ItemPayload {
	payloads := make([]upstream.ItemPayload, len(items))
	for i, item := range items {
		payloads[i] = upstream.ItemPayload{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.Gross.Float64(),
			VATRate:     item.VATRate.Percent(),
			Amount:      item.Gross.Float64(),
		}
	}
	return payloads
}

func buildReceiptPayload(fiscalID string, receipt *entity.Receipt) upstream.ReceiptPayload {
	return upstream.ReceiptPayload{
		FiscalID:      fiscalID,
		Items:         buildItemPayloads(receipt.Items),
		PaymentMethod: receipt.PaymentMethod.String(),
		TotalAmount:   receipt.Total.Float64(),
		DocumentType:  "receipt",
		Date:          receipt.IssuedAt.Local().Format(time.DateOnly),
	}
}

func mustJSONString(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}
