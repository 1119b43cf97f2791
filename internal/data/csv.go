package data

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"state-gridmap/internal/model"
)

// readTable parses a headed CSV document into one map per row keyed by lower-cased column name.
func readTable(raw []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func requireColumns(rows []map[string]string, cols ...string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, c := range cols {
		if _, ok := rows[0][c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// ParseColors reads a `state,color` table.
func ParseColors(raw []byte) (model.ColorTable, error) {
	rows, err := readTable(raw)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(rows, "state", "color"); err != nil {
		return nil, err
	}
	out := make(model.ColorTable, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.StateColor{State: row["state"], Color: row["color"]})
	}
	return out, nil
}

// ParsePublicationGrid reads a `code,state,row,col,publication` table.
func ParsePublicationGrid(raw []byte) ([]model.PublicationEntry, error) {
	rows, err := readTable(raw)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(rows, "code", "state", "row", "col", "publication"); err != nil {
		return nil, err
	}
	out := make([]model.PublicationEntry, 0, len(rows))
	for i, row := range rows {
		r, err := strconv.Atoi(row["row"])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid row %q", i+2, row["row"])
		}
		c, err := strconv.Atoi(row["col"])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid col %q", i+2, row["col"])
		}
		if r < 1 || c < 1 {
			return nil, fmt.Errorf("line %d: grid position (%d,%d) is not 1-based", i+2, r, c)
		}
		out = append(out, model.PublicationEntry{
			Code:        row["code"],
			State:       row["state"],
			Row:         r,
			Col:         c,
			Publication: row["publication"],
		})
	}
	return out, nil
}

// ParseLinks reads the link table; only the publication column is required.
func ParseLinks(raw []byte) ([]model.Link, error) {
	rows, err := readTable(raw)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(rows, "publication"); err != nil {
		return nil, err
	}
	out := make([]model.Link, 0, len(rows))
	for _, row := range rows {
		l := model.Link{Publication: row["publication"]}
		for k, v := range row {
			if k == "publication" {
				continue
			}
			if l.Extra == nil {
				l.Extra = map[string]string{}
			}
			l.Extra[k] = v
		}
		out = append(out, l)
	}
	return out, nil
}

// WriteDatasetCSV writes a chart dataset as `date,value` rows.
func WriteDatasetCSV(w io.Writer, points []model.Point) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "value"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.X.Format(model.DateLayout),
			strconv.FormatFloat(p.Y, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
