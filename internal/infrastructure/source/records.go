package source

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// shortDateLayout is tried before permissive parsing: two-digit-year
// month/day/year, as in "03/15/19".
const shortDateLayout = "01/02/06"

// ParseDate parses s with the fixed short layout first and falls back to
// dateparse.  The boolean is false when neither succeeds.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(shortDateLayout, s); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseProduction coerces a cell to a non-negative number.  Thousands
// separators and surrounding whitespace are ignored; anything unparsable,
// non-finite or negative yields 0.
func ParseProduction(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if y, err := strconv.Atoi(s); err == nil && y > 0 {
		return y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f == math.Trunc(f) {
		return int(f)
	}
	return 0
}

// buildDataset converts a decoded table into a Dataset using schema.  A
// parsed date wins over an explicit year column; a year column is used when
// the date is absent or unparsable.
func buildDataset(name, src string, schema dataset.Schema, t *table) *dataset.Dataset {
	resolved := schema.Resolve(t.Headers)
	extras := schema.ExtraHeaders(t.Headers)

	columns := dataset.Columns(resolved)
	// A parsable date column also supplies the year role.
	if _, ok := resolved[dataset.ColumnDate]; ok {
		if _, hasYear := resolved[dataset.ColumnYear]; !hasYear {
			columns = dataset.Columns(withRole(resolved, dataset.ColumnYear))
		}
	}

	ds := dataset.New(name, columns...)
	ds.Source = src
	ds.Records = make([]dataset.Record, 0, len(t.Rows))

	for _, row := range t.Rows {
		rec := dataset.Record{}
		if h, ok := resolved[dataset.ColumnDate]; ok {
			if d, ok := ParseDate(row[h]); ok {
				rec.Date = &d
				rec.Year = d.Year()
			}
		}
		if rec.Year == 0 {
			if h, ok := resolved[dataset.ColumnYear]; ok {
				rec.Year = parseYear(row[h])
			}
		}
		if h, ok := resolved[dataset.ColumnState]; ok {
			rec.State = strings.TrimSpace(row[h])
		}
		if h, ok := resolved[dataset.ColumnType]; ok {
			rec.Type = strings.TrimSpace(row[h])
		}
		if h, ok := resolved[dataset.ColumnCommodity]; ok {
			rec.Commodity = strings.TrimSpace(row[h])
		}
		if h, ok := resolved[dataset.ColumnProduction]; ok {
			rec.Production = ParseProduction(row[h])
		}
		if len(extras) > 0 {
			rec.Extras = make(map[string]float64, len(extras))
			for key, h := range extras {
				rec.Extras[key] = ParseProduction(row[h])
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds
}

func withRole(resolved map[string]string, role string) map[string]string {
	out := make(map[string]string, len(resolved)+1)
	for k, v := range resolved {
		out[k] = v
	}
	out[role] = ""
	return out
}

//Personal.AI order the ending
