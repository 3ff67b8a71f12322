package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/export"
)

// ReportFormat selects the rendering of an export.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

// ContentType returns the MIME type for the format.
func (f ReportFormat) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// ReportService renders dues and attendance listings into downloadable
// CSV or PDF documents.
type ReportService struct {
	dues       *DueService
	attendance *AttendanceService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(dues *DueService, attendance *AttendanceService, csvExporter *export.CSVExporter, pdfExporter *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{dues: dues, attendance: attendance, csv: csvExporter, pdf: pdfExporter, logger: logger}
}

// DuesReport renders the scope's dues as a document in the requested format.
func (s *ReportService) DuesReport(ctx context.Context, scope access.Scope, filter models.DueFilter, format ReportFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dues, err := s.dues.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Jugador", "Mes", "Año", "Monto", "Vencimiento", "Estado"},
	}
	for _, due := range dues {
		data.Rows = append(data.Rows, map[string]string{
			"Jugador":     fmt.Sprintf("%s %s", due.PlayerNombre, due.PlayerApellido),
			"Mes":         due.MesReferencia,
			"Año":         strconv.Itoa(due.AnioReferencia),
			"Monto":       strconv.FormatFloat(due.Monto, 'f', 2, 64),
			"Vencimiento": due.FechaVencimiento.Format("2006-01-02"),
			"Estado":      string(due.EstadoPago),
		})
	}

	return s.render(data, "Reporte de mensualidades", format)
}

// AttendanceReport renders the scope's attendance records in the requested
// format.
func (s *ReportService) AttendanceReport(ctx context.Context, scope access.Scope, filter models.AttendanceFilter, format ReportFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	records, err := s.attendance.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Jugador", "Fecha", "Sesión", "Estado"},
	}
	for _, record := range records {
		session := string(record.SessionKind())
		data.Rows = append(data.Rows, map[string]string{
			"Jugador": fmt.Sprintf("%s %s", record.PlayerNombre, record.PlayerApellido),
			"Fecha":   record.Fecha.Format("2006-01-02"),
			"Sesión":  session,
			"Estado":  string(record.Estado),
		})
	}

	return s.render(data, "Reporte de asistencias", format)
}

func (s *ReportService) render(data export.Dataset, title string, format ReportFormat) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if format == FormatPDF {
		out, err = s.pdf.Render(data, title)
	} else {
		out, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return out, nil
}
