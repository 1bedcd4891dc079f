package ports

import (
	"context"

	"github.com/jhoicas/restock-api/internal/application/dto"
)

// ReportGenerator renderiza reportes descargables (PDF).
type ReportGenerator interface {
	GeneratePriorityReport(ctx context.Context, report dto.PriorityReport) ([]byte, error)
}
