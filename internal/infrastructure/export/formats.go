package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fxrates-exporter/internal/application"
	"fxrates-exporter/internal/domain"
	infraconfig "fxrates-exporter/internal/infrastructure/config"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

var header = []string{"Currency", "Rate"}

var (
	_ application.TableWriter = CSV{}
	_ application.TableWriter = XLSX{}
)

// CSV writes comma separated UTF-8 with a byte order mark.
type CSV struct{}

func (CSV) Name() string { return "csv" }
func (CSV) Ext() string { return "csv" }

func (CSV) Write(path string, t domain.RateTable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range t.Records() {
		if err := w.Write([]string{r.Currency, FormatRate(r.Rate)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// XLSX writes a single-sheet workbook with a header row and no index column.
type XLSX struct {
	Sheet string
}

func (XLSX) Name() string { return "xlsx" }
func (XLSX) Ext() string { return "xlsx" }

func (x XLSX) Write(path string, t domain.RateTable) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	sheet := infraconfig.DefaultSheetName
	if x.Sheet != "" && x.Sheet != sheet {
		if err := f.SetSheetName(sheet, x.Sheet); err != nil {
			return err
		}
		sheet = x.Sheet
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.Currency, r.Rate}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// FormatRate renders a rate with the shortest representation that round-trips.
func FormatRate(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Writers resolves format names such as "csv" or "xlsx".
func Writers(names []string) ([]application.TableWriter, error) {
	out := make([]application.TableWriter, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		switch n {
		case "csv":
			out = append(out, CSV{})
		case "xlsx":
			out = append(out, XLSX{})
		default:
			return nil, fmt.Errorf("export: unknown format %q", n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("export: no output formats")
	}
	return out, nil
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create %s: %w", dir, err)
	}
	return nil
}
