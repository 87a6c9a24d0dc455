package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

// SummarySheet is the first sheet of every workbook.
const SummarySheet = "Summary"

const (
	maxSheetName = 31
	colWidth     = 22
)

// ============================================================================
// Workbook
// ============================================================================

// WriteWorkbook renders rep as XLSX into w.
func WriteWorkbook(w io.Writer, rep *Report) error {
	f, err := BuildWorkbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to write workbook")
	}
	return nil
}

// BuildWorkbook lays rep out as a summary sheet followed by one sheet per
// section.
func BuildWorkbook(rep *Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.CodeExportFailed, "failed to name summary sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.CodeExportFailed, "failed to create header style")
	}

	sw := &sheetWriter{f: f, sheet: SummarySheet, bold: bold}
	writeSummary(sw, rep)

	for _, sec := range rep.Sections {
		name := sheetName(sec.Name)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, errors.Wrap(err, errors.CodeExportFailed, "failed to add sheet").WithDetail(name)
		}
		ssw := &sheetWriter{f: f, sheet: name, bold: bold}
		writeSection(ssw, sec)
		if ssw.err != nil {
			f.Close()
			return nil, ssw.err
		}
	}
	if sw.err != nil {
		f.Close()
		return nil, sw.err
	}
	for _, s := range f.GetSheetList() {
		_ = f.SetColWidth(s, "A", "F", colWidth)
	}
	return f, nil
}

func writeSummary(sw *sheetWriter, rep *Report) {
	sw.header("EnviroLens report")
	sw.skip()
	sw.header("Dataset", "Status", "Synthetic", "Insights", "Message")
	for _, sec := range rep.Sections {
		status := sec.Status
		if status == "" {
			status = "ok"
		}
		msg := sec.Message
		if sec.Error != "" {
			msg = sec.Error
		}
		sw.row(sec.Title(), status, sec.Synth, len(sec.Insights), msg)
	}
	if len(rep.Recommendations) > 0 {
		sw.skip()
		sw.header("Recommendations")
		for _, r := range rep.Recommendations {
			sw.row(r)
		}
	}
}

func writeSection(sw *sheetWriter, sec Section) {
	sw.header(sec.Title())
	if sec.Status != "" {
		sw.row("Status", sec.Status)
	}
	if sec.Message != "" {
		sw.row("Message", sec.Message)
	}
	if sec.Error != "" {
		sw.row("Error", sec.Error)
	}
	sw.skip()
	sw.header("Insights")
	for _, s := range sec.Insights {
		sw.row(s)
	}
	for _, key := range sec.FieldKeys() {
		sw.skip()
		writeValue(sw, key, sec.Fields[key])
	}
}

// writeValue renders one decoded JSON value under a titled block.  Maps of
// numbers become two-column tables, maps of maps become matrices, lists of
// objects become tables and nested objects recurse with a dotted title.
func writeValue(sw *sheetWriter, title string, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		switch {
		case allMaps(val):
			writeMatrix(sw, title, val)
		case allScalars(val):
			sw.header(title, "Value")
			for _, k := range sortedKeys(val) {
				sw.row(k, val[k])
			}
		default:
			sw.header(title)
			var nested []string
			for _, k := range sortedKeys(val) {
				if isScalar(val[k]) {
					sw.row(k, val[k])
				} else {
					nested = append(nested, k)
				}
			}
			for _, k := range nested {
				sw.skip()
				writeValue(sw, title+"."+k, val[k])
			}
		}
	case []interface{}:
		writeList(sw, title, val)
	default:
		sw.row(title, val)
	}
}

func writeMatrix(sw *sheetWriter, title string, m map[string]interface{}) {
	colSet := make(map[string]bool)
	for _, inner := range m {
		for k := range inner.(map[string]interface{}) {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	head := make([]interface{}, 0, len(cols)+1)
	head = append(head, title)
	for _, c := range cols {
		head = append(head, c)
	}
	sw.headerValues(head)

	for _, rowKey := range sortedKeys(m) {
		inner := m[rowKey].(map[string]interface{})
		cells := make([]interface{}, 0, len(cols)+1)
		cells = append(cells, rowKey)
		for _, c := range cols {
			cells = append(cells, inner[c])
		}
		sw.row(cells...)
	}
}

func writeList(sw *sheetWriter, title string, list []interface{}) {
	var objs []map[string]interface{}
	for _, item := range list {
		if o, ok := item.(map[string]interface{}); ok {
			objs = append(objs, o)
		}
	}
	if len(objs) == 0 || len(objs) != len(list) {
		sw.header(title)
		for _, item := range list {
			sw.row(item)
		}
		return
	}

	colSet := make(map[string]bool)
	for _, o := range objs {
		for k, v := range o {
			if isScalar(v) {
				colSet[k] = true
			}
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	sw.header(title)
	head := make([]interface{}, len(cols))
	for i, c := range cols {
		head[i] = c
	}
	sw.headerValues(head)
	for _, o := range objs {
		cells := make([]interface{}, len(cols))
		for i, c := range cols {
			cells[i] = o[c]
		}
		sw.row(cells...)
	}
}

// ============================================================================
// Helpers
// ============================================================================

type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	next  int
	err   error
}

func (sw *sheetWriter) skip() { sw.next++ }

func (sw *sheetWriter) header(cells ...string) {
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	sw.headerValues(vals)
}

func (sw *sheetWriter) headerValues(cells []interface{}) {
	row := sw.next + 1
	sw.row(cells...)
	if sw.err != nil || len(cells) == 0 {
		return
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(cells), row)
	if err := sw.f.SetCellStyle(sw.sheet, start, end, sw.bold); err != nil && sw.err == nil {
		sw.err = errors.Wrap(err, errors.CodeExportFailed, "failed to style header")
	}
}

func (sw *sheetWriter) row(cells ...interface{}) {
	sw.next++
	for i, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, sw.next)
		if err == nil {
			err = sw.f.SetCellValue(sw.sheet, cell, v)
		}
		if err != nil && sw.err == nil {
			sw.err = errors.Wrap(err, errors.CodeExportFailed, "failed to set cell").
				WithDetail(fmt.Sprintf("%s!%s", sw.sheet, cell))
		}
	}
}

// sheetName trims names to the 31-character XLSX limit.
func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return false
	}
	return true
}

func allScalars(m map[string]interface{}) bool {
	for _, v := range m {
		if !isScalar(v) {
			return false
		}
	}
	return true
}

func allMaps(m map[string]interface{}) bool {
	if len(m) == 0 {
		return false
	}
	for _, v := range m {
		if _, ok := v.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
