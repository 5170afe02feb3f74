package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/zpam/spamnb/pkg/metrics"
)

// Sheet is the worksheet holding the averaged results
const Sheet = "Results"

var headers = []string{"trainNum", "runs", "ACC", "precisionRate", "recallRate"}

// ErrNoResults means the metrics store holds no evaluation records
var ErrNoResults = errors.New("no evaluation results")

// Load reads every record from store and averages them per training size
func Load(ctx context.Context, store metrics.Store) ([]metrics.Summary, error) {
	c, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if c.Len() == 0 {
		return nil, ErrNoResults
	}
	return metrics.Summarize(c)
}

// PrintTable writes the averaged results as a text table
func PrintTable(w io.Writer, rows []metrics.Summary) {
	fmt.Fprintf(w, "📈 Evaluation Results\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%10s %6s %10s %10s %10s\n", "Train", "Runs", "Accuracy", "Precision", "Recall")
	fmt.Fprintf(w, "───────────────────────────────────────────────────\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%10s %6d %9.2f%% %9.2f%% %9.2f%%\n",
			r.Key, r.Runs, r.ACC*100, r.Precision*100, r.Recall*100)
	}
	fmt.Fprintf(w, "═══════════════════════════════════════════════════\n")
}

// WriteWorkbook saves the averaged results and a line chart of accuracy,
// precision and recall against training size to an .xlsx file
func WriteWorkbook(path string, rows []metrics.Summary) error {
	if len(rows) == 0 {
		return ErrNoResults
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(Sheet, cell, h); err != nil {
			return err
		}
	}

	for r, s := range rows {
		values := []interface{}{s.Key, s.Runs, s.ACC, s.Precision, s.Recall}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(Sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.AddChart(Sheet, "G2", resultChart(len(rows))); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func resultChart(n int) *excelize.Chart {
	last := n + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", Sheet, last)

	series := make([]excelize.ChartSeries, 0, 3)
	for col := 3; col <= 5; col++ {
		name, _ := excelize.CoordinatesToCellName(col, 1, true)
		letter, _ := excelize.ColumnNumberToName(col)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!%s", Sheet, name),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", Sheet, letter, letter, last),
		})
	}

	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Accuracy, precision and recall by training size"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "training emails"}},
		},
		Dimension: excelize.ChartDimension{Width: 640, Height: 400},
	}
}
