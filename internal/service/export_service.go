package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/export"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

type artifactStore interface {
	SaveLatest(ctx context.Context, artifact *models.ExportArtifact) error
	Latest(ctx context.Context) (*models.ExportArtifact, error)
}

// SignedArtifact pairs the stored handle with a time-limited download token.
type SignedArtifact struct {
	Artifact  *models.ExportArtifact `json:"artifact"`
	PDFToken  string                 `json:"pdf_token"`
	CSVToken  string                 `json:"csv_token"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// ExportService turns a finalized day into the downloadable report documents.
// Export success or failure never feeds back into any submission decision.
type ExportService struct {
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	files     *storage.ReportStore
	signer    *storage.SignedURLSigner
	artifacts artifactStore
	logger    *zap.Logger
}

// NewExportService constructs the exporter.
func NewExportService(pdf *export.PDFExporter, csv *export.CSVExporter, files *storage.ReportStore, signer *storage.SignedURLSigner, artifacts artifactStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{pdf: pdf, csv: csv, files: files, signer: signer, artifacts: artifacts, logger: logger}
}

// ExportDay renders and stores the PDF and CSV reports for the day and records
// the handle for later retrieval.
func (s *ExportService) ExportDay(ctx context.Context, dayKey string, marks []models.AttendanceMark) (*models.ExportArtifact, error) {
	report := buildDayReport(dayKey, marks)

	pdfBytes, err := s.pdf.Render(report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "render pdf report")
	}
	csvBytes, err := s.csv.Render(report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "render csv report")
	}

	pdfPath, err := s.files.Save(fmt.Sprintf("attendance_%s.pdf", dayKey), pdfBytes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "store pdf report")
	}
	csvPath, err := s.files.Save(fmt.Sprintf("attendance_%s.csv", dayKey), csvBytes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "store csv report")
	}

	artifact := &models.ExportArtifact{
		ID:        uuid.NewString(),
		Day:       dayKey,
		PDFPath:   pdfPath,
		CSVPath:   csvPath,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.artifacts.SaveLatest(ctx, artifact); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExport.Code, appErrors.ErrExport.Status, "record export handle")
	}

	s.logger.Sugar().Infow("day export stored", "day", dayKey, "pdf", pdfPath, "csv", csvPath)
	return artifact, nil
}

// Latest returns the most recent export handle with signed download tokens.
func (s *ExportService) Latest(ctx context.Context) (*SignedArtifact, error) {
	artifact, err := s.artifacts.Latest(ctx)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrKeyNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no attendance export yet, submit attendance first")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load export handle")
	}

	pdfToken, expiresAt, err := s.signer.Generate(artifact.ID, artifact.PDFPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign pdf download")
	}
	csvToken, _, err := s.signer.Generate(artifact.ID, artifact.CSVPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign csv download")
	}

	return &SignedArtifact{Artifact: artifact, PDFToken: pdfToken, CSVToken: csvToken, ExpiresAt: expiresAt}, nil
}

// Open validates a download token and returns the file handle.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file missing")
	}
	return file, nil
}

func buildDayReport(dayKey string, marks []models.AttendanceMark) export.DayReport {
	report := export.DayReport{Day: dayKey, Title: "Attendance Report"}
	for _, mark := range marks {
		row := export.ReportRow{RollNo: mark.RollNo, Name: mark.Name}
		switch {
		case mark.Present:
			report.Present = append(report.Present, row)
		case mark.Absent:
			report.Absent = append(report.Absent, row)
		}
	}
	return report
}
