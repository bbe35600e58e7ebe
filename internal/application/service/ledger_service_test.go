package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/domain/enum"
	"github.com/corrispettivi/registro-api/pkg/apperror"
	"github.com/corrispettivi/registro-api/pkg/money"
)

func newLedger(repo *fakeReceiptRepo, settings *fakeSettingsRepo, submitter *fakeSubmitter) *LedgerService {
	return NewLedgerService(repo, settings, submitter, zap.NewNop())
}

func TestAddDraftItemValidation(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "", GrossAmount: 10, VATRate: 22})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.AddDraftItem(AddDraftItemInput{Description: "Caffè", GrossAmount: 0, VATRate: 22})
	require.Error(t, err)

	_, err = svc.AddDraftItem(AddDraftItemInput{Description: "Caffè", GrossAmount: -5, VATRate: 22})
	require.Error(t, err)

	_, err = svc.AddDraftItem(AddDraftItemInput{Description: "Caffè", GrossAmount: 10, VATRate: 21})
	require.Error(t, err)

	// No mutation on failure.
	items, _ := svc.Draft()
	assert.Empty(t, items)
}

func TestAddDraftItemComputesScorporo(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})

	item, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 122.00, VATRate: 22})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(12200), item.Gross)
	assert.Equal(t, money.Cents(10000), item.Net)
	assert.Equal(t, money.Cents(2200), item.VAT)
	assert.Equal(t, 1, item.Quantity)
}

func TestRemoveDraftItemIsIdempotent(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})

	item, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)

	svc.RemoveDraftItem(item.ID)
	items, _ := svc.Draft()
	assert.Empty(t, items)

	// Removing again is a no-op.
	svc.RemoveDraftItem(item.ID)
	svc.RemoveDraftItem("ghost")
}

func TestIssueRequiresConfiguration(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), &fakeSettingsRepo{}, &fakeSubmitter{})

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), enum.PaymentCash)
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)
}

func TestIssueRequiresItems(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})

	_, err := svc.Issue(context.Background(), enum.PaymentCash)
	assert.ErrorIs(t, err, apperror.ErrEmptyReceipt)
}

func TestIssueSuccess(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{"id":"up-1"}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 60.00, VATRate: 22})
	require.NoError(t, err)
	_, err = svc.AddDraftItem(AddDraftItemInput{Description: "B", GrossAmount: 50.00, VATRate: 10})
	require.NoError(t, err)

	receipt, err := svc.Issue(context.Background(), enum.PaymentCard)
	require.NoError(t, err)

	assert.Equal(t, enum.StatusIssued, receipt.Status)
	assert.Equal(t, money.Cents(11000), receipt.Total)
	assert.Equal(t, money.Cents(1082), receipt.Items[0].VAT)
	assert.Equal(t, money.Cents(455), receipt.Items[1].VAT)
	assert.Regexp(t, `^0001-\d{4}$`, receipt.Number)
	assert.JSONEq(t, `{"id":"up-1"}`, string(receipt.RemoteResponse))

	// Draft is cleared after issuing.
	items, _ := svc.Draft()
	assert.Empty(t, items)

	stored, err := repo.GetByID(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.StatusIssued, stored.Status)
}

func TestIssueUpstreamRejection(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: failResult(400, `{"message":"bad payload"}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)

	receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
	require.NoError(t, err)

	// The record survives locally with the failure detail attached.
	assert.Equal(t, enum.StatusError, receipt.Status)
	assert.JSONEq(t, `{"message":"bad payload"}`, string(receipt.RemoteResponse))

	stored, _ := repo.GetByID(context.Background(), receipt.ID)
	assert.Equal(t, enum.StatusError, stored.Status)
}

func TestIssueTransportFailure(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createErr: errors.New("connection refused")}
	svc := newLedger(repo, configuredSettings(), submitter)

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)

	receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, enum.StatusError, receipt.Status)
	assert.Contains(t, string(receipt.RemoteResponse), "connection refused")
}

func TestSequentialNumbersWithinYear(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
		require.NoError(t, err)
		receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
		require.NoError(t, err)
		assert.False(t, seen[receipt.Number], "duplicate number %s", receipt.Number)
		seen[receipt.Number] = true
	}
}

func issueOne(t *testing.T, svc *LedgerService, desc string, gross float64, rate int) string {
	t.Helper()
	_, err := svc.AddDraftItem(AddDraftItemInput{Description: desc, GrossAmount: gross, VATRate: rate})
	require.NoError(t, err)
	receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
	require.NoError(t, err)
	require.Equal(t, enum.StatusIssued, receipt.Status)
	return receipt.ID
}

func TestRefundLeavesOriginalUntouched(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{
		createResult: okResult(`{}`),
		refundResult: okResult(`{"refund":"ok"}`),
	}
	svc := newLedger(repo, configuredSettings(), submitter)

	id := issueOne(t, svc, "A", 122.00, 22)
	before, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	refund, err := svc.Refund(context.Background(), id, []string{before.Items[0].ID})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(-12200), refund.Total)
	assert.Equal(t, enum.StatusIssued, refund.Status)
	assert.Equal(t, enum.KindRefund, refund.Kind)
	assert.Equal(t, before.Number, refund.OriginalNumber)
	assert.Regexp(t, `-R$`, refund.Number)
	assert.Equal(t, before.PaymentMethod, refund.PaymentMethod)

	after, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.Items, after.Items)
}

func TestRefundRequiresSelection(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{}`), refundResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	id := issueOne(t, svc, "A", 10, 22)

	_, err := svc.Refund(context.Background(), id, nil)
	assert.ErrorIs(t, err, apperror.ErrEmptySelection)

	_, err = svc.Refund(context.Background(), id, []string{"unknown-item"})
	assert.ErrorIs(t, err, apperror.ErrEmptySelection)

	assert.Zero(t, submitter.refundCalls)
}

func TestRefundRemoteFailureMutatesNothing(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{
		createResult: okResult(`{}`),
		refundResult: failResult(500, `{"message":"boom"}`),
	}
	svc := newLedger(repo, configuredSettings(), submitter)

	id := issueOne(t, svc, "A", 10, 22)
	original, _ := repo.GetByID(context.Background(), id)

	_, err := svc.Refund(context.Background(), id, []string{original.Items[0].ID})
	require.Error(t, err)

	all, _ := repo.All(context.Background())
	assert.Len(t, all, 1)
}

func TestRefundOfRefundRejected(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{}`), refundResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	id := issueOne(t, svc, "A", 10, 22)
	original, _ := repo.GetByID(context.Background(), id)
	refund, err := svc.Refund(context.Background(), id, []string{original.Items[0].ID})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), refund.ID, []string{refund.Items[0].ID})
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
}

func TestVoidTransitions(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{}`), voidResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	id := issueOne(t, svc, "A", 10, 22)

	voided, err := svc.Void(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, enum.StatusVoided, voided.Status)

	// Voiding twice fails with no state change.
	_, err = svc.Void(context.Background(), id)
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

	stored, _ := repo.GetByID(context.Background(), id)
	assert.Equal(t, enum.StatusVoided, stored.Status)
}

func TestVoidRejectedForPendingAndError(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: failResult(500, `{}`), voidResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)
	receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
	require.NoError(t, err)
	require.Equal(t, enum.StatusError, receipt.Status)

	_, err = svc.Void(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	assert.Zero(t, submitter.voidCalls)
}

func TestVoidUnknownReceipt(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})
	_, err := svc.Void(context.Background(), "ghost")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestDraftTotals(t *testing.T) {
	svc := newLedger(newFakeReceiptRepo(), configuredSettings(), &fakeSubmitter{})

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 60.00, VATRate: 22})
	require.NoError(t, err)
	_, err = svc.AddDraftItem(AddDraftItemInput{Description: "B", GrossAmount: 50.00, VATRate: 10})
	require.NoError(t, err)

	items, totals := svc.Draft()
	assert.Len(t, items, 2)
	assert.Equal(t, money.Cents(11000), totals.Total)
	assert.Equal(t, money.Cents(1082+455), totals.VAT)
	assert.Equal(t, totals.Total, totals.Net+totals.VAT)
}

func TestIssueUsesLocalYearForNumbering(t *testing.T) {
	repo := newFakeReceiptRepo()
	submitter := &fakeSubmitter{createResult: okResult(`{}`)}
	svc := newLedger(repo, configuredSettings(), submitter)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local) }

	_, err := svc.AddDraftItem(AddDraftItemInput{Description: "A", GrossAmount: 10, VATRate: 22})
	require.NoError(t, err)
	receipt, err := svc.Issue(context.Background(), enum.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, "0001-2026", receipt.Number)
}
