// Package export renders analysis runs as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
)

// Sheet names.
const (
	CandidatesSheet = "Candidates"
	SummarySheet    = "Summary"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var candidateHeader = []string{
	"File", "Status", "Profession", "Years", "Summary", "Strongest skills", "Challenges", "Error",
}

// Write renders run into an xlsx workbook on w.
func Write(w io.Writer, run *dombatch.Run) error {
	f, err := build(run)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path, adding the .xlsx extension when missing.
func Save(path string, run *dombatch.Run) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, run); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func build(run *dombatch.Run) (*excelize.File, error) {
	if run == nil {
		return nil, fmt.Errorf("no analysis run to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", CandidatesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeCandidates(f, run); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("candidates sheet: %w", err)
	}
	if err := writeSummary(f, run); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	return f, nil
}

func writeCandidates(f *excelize.File, run *dombatch.Run) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("wrap style: %w", err)
	}

	widths := []float64{24, 10, 24, 8, 60, 40, 60, 40}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(CandidatesSheet, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.SetSheetRow(CandidatesSheet, "A1", &candidateHeader); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if err := f.SetCellStyle(CandidatesSheet, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, res := range run.Results() {
		rec := res.Record()
		row := []any{
			res.FileName(),
			string(res.Status()),
			rec.Profession(),
			rec.Years(),
			rec.Summary(),
			strings.Join(rec.StrongestSkills(), ", "),
			strings.Join(rec.Challenges(), "\n"),
			res.Reason(),
		}
		if rec.IsEmpty() {
			row[3] = ""
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(CandidatesSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetCellStyle(CandidatesSheet, cell, fmt.Sprintf("H%d", i+2), wrapStyle); err != nil {
			return fmt.Errorf("row style %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, run *dombatch.Run) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("label style: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	rows := [][]any{
		{"Run ID", run.ID()},
		{"Started", run.StartedAt().UTC().Format(time.RFC3339)},
		{"Finished", run.FinishedAt().UTC().Format(time.RFC3339)},
		{"Duration", run.Duration().Round(time.Millisecond).String()},
		{"Files", run.Len()},
		{"Parsed", run.Count(dombatch.StatusOK)},
		{"Unparsable", run.Count(dombatch.StatusEmpty)},
		{"Failed", run.Count(dombatch.StatusError)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
		if err := f.SetCellStyle(SummarySheet, cell, cell, labelStyle); err != nil {
			return fmt.Errorf("summary style: %w", err)
		}
	}
	return nil
}
