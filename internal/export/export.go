// Package export writes lead batches to timestamped JSON, CSV, and XLSX
// files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Formats supported by Save.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Save writes leads to dir as "<name>_<timestamp>.<format>" and returns
// the path of the written file. An empty batch is an error, never an
// empty file.
func Save(leads []model.Lead, name, format, dir string) (string, error) {
	if len(leads) == 0 {
		return "", eris.New("export: no leads to export")
	}
	if name == "" {
		name = "leads"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, name+"_"+stamp+"."+format)

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(leads, path)
	case FormatCSV:
		err = writeCSV(leads, path)
	case FormatXLSX:
		err = writeXLSX(leads, path)
	default:
		return "", eris.Errorf("export: unsupported format %q", format)
	}
	if err != nil {
		return "", err
	}

	zap.L().Info("exported leads",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("count", len(leads)),
	)
	return path, nil
}

func writeJSON(leads []model.Lead, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// writeCSV flattens nested lead fields into underscore-joined columns;
// the header is the sorted union of columns across the batch.
func writeCSV(leads []model.Lead, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	columns := model.FlatColumns(leads)

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, lead := range leads {
		flat := lead.Flatten()
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = flat[col]
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

func writeXLSX(leads []model.Lead, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	columns := model.FlatColumns(leads)

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetString(col)
	}
	for _, lead := range leads {
		flat := lead.Flatten()
		row := sheet.AddRow()
		for _, col := range columns {
			row.AddCell().SetString(flat[col])
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
