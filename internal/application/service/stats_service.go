package service

import (
	"context"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/domain/enum"
	"github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/pkg/money"
)

// StatsService derives register statistics on demand. Everything is a full
// recomputation over the collection: ledger sizes are single-shop manual
// volumes, so no incremental index is maintained.
type StatsService struct {
	receiptRepo repository.ReceiptRepository
	now         func() time.Time
}

// NewStatsService creates a new statistics service
func NewStatsService(receiptRepo repository.ReceiptRepository) *StatsService {
	return &StatsService{receiptRepo: receiptRepo, now: time.Now}
}

// VATBreakdown holds per-rate VAT amounts for one day. The exempt bucket
// tracks gross instead, since its VAT is zero by definition.
type VATBreakdown struct {
	Standard money.Cents `json:"rate_22"`
	Reduced  money.Cents `json:"rate_10"`
	Minimum  money.Cents `json:"rate_4"`
	Exempt   money.Cents `json:"exempt_gross"`
}

// DayTotals summarizes one calendar day.
type DayTotals struct {
	GrossTotal money.Cents  `json:"gross_total"`
	Count      int          `json:"count"`
	VAT        VATBreakdown `json:"vat_breakdown"`
}

// Dashboard is the full stats summary shown on the register home screen.
type Dashboard struct {
	Today        DayTotals        `json:"today"`
	MonthTotal   money.Cents      `json:"month_total"`
	PendingCount int              `json:"pending_count"`
	Recent       []entity.Receipt `json:"recent"`
}

// Revenue counts only issued receipts: pending and error receipts are not
// realized transactions, and voided ones were cancelled.
func countsTowardRevenue(r *entity.Receipt) bool {
	return r.Status == enum.StatusIssued
}

// DailyTotals computes totals and the VAT breakdown for one local calendar
// day. Refund records contribute with negative sign, keeping the breakdown
// consistent with the (already negative) gross totals.
func (s *StatsService) DailyTotals(ctx context.Context, day time.Time) (*DayTotals, error) {
	receipts, err := s.receiptRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	totals := s.dailyTotals(receipts, day)
	return &totals, nil
}

func (s *StatsService) dailyTotals(receipts []entity.Receipt, day time.Time) DayTotals {
	var totals DayTotals
	for i := range receipts {
		r := &receipts[i]
		if !countsTowardRevenue(r) || !r.OnDay(day) {
			continue
		}
		totals.GrossTotal += r.Total
		totals.Count++

		sign := money.Cents(1)
		if r.IsRefund() {
			sign = -1
		}
		for _, item := range r.Items {
			switch item.VATRate {
			case enum.VATStandard:
				totals.VAT.Standard += sign * item.VAT
			case enum.VATReduced:
				totals.VAT.Reduced += sign * item.VAT
			case enum.VATMinimum:
				totals.VAT.Minimum += sign * item.VAT
			case enum.VATExempt:
				totals.VAT.Exempt += sign * item.Gross
			}
		}
	}
	return totals
}

// MonthlyTotal sums issued receipts from monthStart to the end of that month.
func (s *StatsService) MonthlyTotal(ctx context.Context, monthStart time.Time) (money.Cents, error) {
	receipts, err := s.receiptRepo.All(ctx)
	if err != nil {
		return 0, err
	}
	return s.monthlyTotal(receipts, monthStart), nil
}

func (s *StatsService) monthlyTotal(receipts []entity.Receipt, monthStart time.Time) money.Cents {
	var total money.Cents
	y, m, _ := monthStart.Local().Date()
	for i := range receipts {
		r := &receipts[i]
		if !countsTowardRevenue(r) {
			continue
		}
		ry, rm, _ := r.IssuedAt.Local().Date()
		if ry == y && rm == m && !r.IssuedAt.Before(monthStart) {
			total += r.Total
		}
	}
	return total
}

// PendingCount counts receipts still awaiting an upstream outcome.
func (s *StatsService) PendingCount(ctx context.Context) (int, error) {
	receipts, err := s.receiptRepo.All(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range receipts {
		if receipts[i].Status == enum.StatusPending {
			count++
		}
	}
	return count, nil
}

// GetDashboard assembles the register's stats summary in one pass.
func (s *StatsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	receipts, err := s.receiptRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	y, m, _ := now.Local().Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.Local)

	dashboard := &Dashboard{
		Today:      s.dailyTotals(receipts, now),
		MonthTotal: s.monthlyTotal(receipts, monthStart),
	}
	for i := range receipts {
		if receipts[i].Status == enum.StatusPending {
			dashboard.PendingCount++
		}
	}

	recent := receipts
	if len(recent) > 10 {
		recent = recent[:10]
	}
	dashboard.Recent = recent

	return dashboard, nil
}
