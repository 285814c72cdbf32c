package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "nombre", "cantidad", "precio", "valor_total"}

// WriteCSV writes fields as a table with a valor_total column. Rows are
// written in the order given.
func WriteCSV(w io.Writer, fields []Fields) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, f := range fields {
		rec, err := FromFields(f)
		if err != nil {
			return err
		}
		row := []string{
			rec.ID(),
			rec.Name(),
			strconv.FormatInt(rec.Quantity(), 10),
			rec.Price().StringFixed(priceScale),
			rec.TotalValue().StringFixed(priceScale),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the CSV table to path, creating its directory.
func ExportCSV(path string, fields []Fields) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, fields); err != nil {
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
