package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/restock-api/internal/application/dto"
	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/forecast"
)

// ReportUseCase arma el reporte PDF de la lista de prioridad.
type ReportUseCase struct {
	priority  *PriorityUseCase
	generator ports.ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(priority *PriorityUseCase, generator ports.ReportGenerator) *ReportUseCase {
	return &ReportUseCase{priority: priority, generator: generator, now: time.Now}
}

// PriorityPDF calcula la prioridad con los parámetros dados y la renderiza.
func (uc *ReportUseCase) PriorityPDF(ctx context.Context, p forecast.Params) ([]byte, error) {
	res, err := uc.priority.RestockPriority(ctx, p)
	if err != nil {
		return nil, err
	}
	doc, err := uc.generator.GeneratePriorityReport(ctx, dto.PriorityReport{
		GeneratedAt:        uc.now().UTC(),
		LeadTimeDays:       p.LeadTimeDays,
		Window:             p.Window,
		Z:                  p.Z,
		Priority:           res.Priority,
		LedgerReadFailures: res.LedgerReadFailures,
	})
	if err != nil {
		return nil, fmt.Errorf("generar reporte de prioridad: %w", err)
	}
	return doc, nil
}
