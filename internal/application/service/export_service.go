package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/domain/repository"
)

// ExportService projects the register into the semicolon-separated CSV the
// bookkeeper imports into Excel. Data is operator-entered and validated
// before it reaches the ledger, so no quoting gymnastics are needed.
type ExportService struct {
	receiptRepo repository.ReceiptRepository
}

// NewExportService creates a new export service
func NewExportService(receiptRepo repository.ReceiptRepository) *ExportService {
	return &ExportService{receiptRepo: receiptRepo}
}

var csvHeader = []string{"Data", "Numero", "Importo", "IVA", "Totale", "Pagamento", "Stato"}

// Filename returns the download name for an export covering [from, to].
func (s *ExportService) Filename(from, to time.Time) string {
	return fmt.Sprintf("registro_corrispettivi_%s_%s.csv",
		from.Format(time.DateOnly), to.Format(time.DateOnly))
}

// ExportCSV renders all receipts in the date range, one row per receipt:
// date; number; net; VAT; total; payment method; status.
func (s *ExportService) ExportCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	receipts, err := s.receiptRepo.List(ctx, repository.ReceiptFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range receipts {
		if err := w.Write(csvRow(&receipts[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRow(r *entity.Receipt) []string {
	return []string{
		r.IssuedAt.Local().Format("02/01/2006 15:04"),
		r.Number,
		r.NetTotal().String(),
		r.VATTotal().String(),
		r.Total.String(),
		r.PaymentMethod.String(),
		r.Status.String(),
	}
}
