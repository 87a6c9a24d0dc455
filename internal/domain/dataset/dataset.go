// Package dataset defines the tabular record model shared by the loader, the
// synthetic generator, the analytics engine and the dataset plugins.
package dataset

import (
	"sort"
	"time"
)

// Dataset names.  They double as JSON keys in the dashboard payload.
const (
	MineralExtraction = "mineral_extraction"
	WaterQuality      = "water_quality"
	TimberProduction  = "timber_production"
)

// Names lists the datasets in response order.
var Names = []string{MineralExtraction, WaterQuality, TimberProduction}

// Column roles.  Source headers are mapped onto these by a Schema.
const (
	ColumnDate       = "date"
	ColumnYear       = "year"
	ColumnState      = "state"
	ColumnType       = "type"
	ColumnCommodity  = "commodity"
	ColumnProduction = "production"
)

// Record is one observation.  Year is 0 when no date or year could be
// resolved; such records are skipped by year-based grouping and kept for
// everything else.  Production is never negative.
type Record struct {
	Date       *time.Time         `json:"date,omitempty"`
	Year       int                `json:"year"`
	State      string             `json:"state"`
	Type       string             `json:"type"`
	Commodity  string             `json:"commodity"`
	Production float64            `json:"production"`
	Extras     map[string]float64 `json:"extras,omitempty"`
}

// HasYear reports whether the record carries a resolved year.
func (r Record) HasYear() bool { return r.Year != 0 }

// Dataset is an ordered, homogeneous collection of records.  Callers treat it
// as immutable once a loader returns it; use Clone before transforming.
type Dataset struct {
	Name string `json:"name"`
	// Columns lists the column roles present in the source.
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
	// Source is the identifier the dataset was loaded from.
	Source string `json:"source,omitempty"`
	// Synthetic is true when the records were generated rather than loaded.
	Synthetic bool `json:"synthetic,omitempty"`
	// Message carries a loader note such as "No data available".
	Message string `json:"message,omitempty"`
}

// New returns an empty dataset carrying the given columns.
func New(name string, columns ...string) *Dataset {
	return &Dataset{Name: name, Columns: columns, Records: []Record{}}
}

// Empty returns a dataset with no rows and a loader message.
func Empty(name, source, message string) *Dataset {
	return &Dataset{Name: name, Source: source, Records: []Record{}, Message: message}
}

// Len returns the number of records.  A nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasColumn reports whether role is present.
func (d *Dataset) HasColumn(role string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == role {
			return true
		}
	}
	return false
}

// MissingColumns returns the roles from required that are absent, in the
// order given.
func (d *Dataset) MissingColumns(required ...string) []string {
	var missing []string
	for _, r := range required {
		if !d.HasColumn(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Years returns the distinct resolved years in ascending order.
func (d *Dataset) Years() []int {
	if d == nil {
		return nil
	}
	seen := make(map[int]struct{})
	for _, r := range d.Records {
		if r.HasYear() {
			seen[r.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// States returns the distinct non-empty states in ascending order.
func (d *Dataset) States() []string {
	return d.distinct(func(r Record) string { return r.State })
}

// Commodities returns the distinct non-empty commodities in ascending order.
func (d *Dataset) Commodities() []string {
	return d.distinct(func(r Record) string { return r.Commodity })
}

func (d *Dataset) distinct(key func(Record) string) []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range d.Records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := *d
	out.Columns = append([]string(nil), d.Columns...)
	out.Records = make([]Record, len(d.Records))
	for i, r := range d.Records {
		if r.Date != nil {
			t := *r.Date
			r.Date = &t
		}
		if r.Extras != nil {
			extras := make(map[string]float64, len(r.Extras))
			for k, v := range r.Extras {
				extras[k] = v
			}
			r.Extras = extras
		}
		out.Records[i] = r
	}
	return &out
}

// Sample returns up to n records spread evenly across the dataset, keeping
// their original order.
func (d *Dataset) Sample(n int) []Record {
	if d == nil || n <= 0 {
		return nil
	}
	if len(d.Records) <= n {
		return append([]Record(nil), d.Records...)
	}
	out := make([]Record, 0, n)
	step := float64(len(d.Records)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, d.Records[int(float64(i)*step)])
	}
	return out
}

//Personal.AI order the ending
