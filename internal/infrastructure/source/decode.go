package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is a decoded tabular payload: headers in source order and one
// header→cell map per row.
type table struct {
	Headers []string
	Rows    []map[string]string
}

func (t *table) empty() bool { return t == nil || len(t.Rows) == 0 }

// decodeJSON accepts either a JSON array of objects or an object wrapping
// that array under "data".
func decodeJSON(body []byte) (*table, error) {
	body = bytes.TrimSpace(body)
	var items []map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		var wrapper struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, err
		}
		items = wrapper.Data
	} else if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	t := &table{Rows: make([]map[string]string, 0, len(items))}
	seen := make(map[string]struct{})
	for _, item := range items {
		row := make(map[string]string, len(item))
		for k, v := range item {
			row[k] = jsonCell(v)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				t.Headers = append(t.Headers, k)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	// JSON objects carry no column order.
	sort.Strings(t.Headers)
	return t, nil
}

func jsonCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// decodeCSV reads a header row followed by data rows.  Short rows are padded
// with empty cells.
func decodeCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return &table{}, nil
		}
		return nil, err
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	t := &table{Headers: headers}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, zipRow(headers, rec))
	}
	return t, nil
}

// decodeXLSX reads the first sheet of a workbook; the first row is the
// header.
func decodeXLSX(r io.Reader) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &table{}, nil
	}

	t := &table{Headers: rows[0]}
	for _, rec := range rows[1:] {
		if len(rec) == 0 {
			continue
		}
		t.Rows = append(t.Rows, zipRow(t.Headers, rec))
	}
	return t, nil
}

func zipRow(headers, cells []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

// looksLikeJSON reports whether body starts with an array or object.
func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

//Personal.AI order the ending
