package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arogya-labs/referral-digitizer/internal/persist"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// Service flattens persisted extraction records into an XLSX workbook for
// operator reporting: one row per checked test, patient columns repeated.
type Service struct {
	store  store.ArtifactStore
	logger *slog.Logger
}

func NewService(st store.ArtifactStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// ExportRecordsXLSX returns an XLSX workbook (as bytes) for records whose
// embedded key timestamp falls in the [from, to] window (inclusive, date
// precision). Nil bounds are open. Records with undecodable content are
// skipped with a warning rather than failing the export.
func (s *Service) ExportRecordsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	keys, err := store.ListRecords(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Extracted At",
		"Patient",
		"Age",
		"Sex",
		"Ref. Doctor",
		"Section",
		"Test",
		"Confidence %",
		"Record Key",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, key := range keys {
		ts, ok := persist.ParseKeyTimestamp(key)
		if !ok {
			s.logger.Warn("export.skip.bad_key", "key", key)
			continue
		}
		if from != nil && ts.Before(*from) {
			continue
		}
		if to != nil && !ts.Before(to.AddDate(0, 0, 1)) {
			continue
		}

		rec, err := persist.LoadRecord(ctx, s.store, key)
		if err != nil {
			s.logger.Warn("export.skip.unreadable_record", "key", key, "error", err)
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		writePatient := func() {
			write(1, ts.Format("2006-01-02 15:04:05"))
			write(2, rec.PersonalDetails.Name)
			if rec.PersonalDetails.Age > 0 {
				write(3, rec.PersonalDetails.Age)
			}
			write(4, rec.PersonalDetails.Sex)
			write(5, rec.PersonalDetails.RefDoctor)
			write(9, key)
		}

		if len(rec.MedicalPrescriptions) == 0 {
			writePatient()
			row++
		}
		for _, sec := range rec.MedicalPrescriptions {
			for _, item := range sec.Items {
				writePatient()
				write(6, sec.Section)
				write(7, item.Name)
				write(8, item.ConfidenceLevel)
				row++
			}
		}
		exported++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 24) // patient
	_ = f.SetColWidth(sheet, "E", "E", 22) // doctor
	_ = f.SetColWidth(sheet, "F", "F", 22) // section
	_ = f.SetColWidth(sheet, "G", "G", 40) // test
	_ = f.SetColWidth(sheet, "I", "I", 48) // key

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"records", exported,
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
