package dataset

import "strings"

// Schema maps source column headers onto record roles.  Header matching is
// case-insensitive and ignores surrounding whitespace.
type Schema struct {
	// Aliases lists, per role, the accepted header names in priority order.
	Aliases map[string][]string
	// Extras names additional numeric columns copied into Record.Extras.
	Extras []string
}

// Resolve returns, for each role, the header that supplies it.  Roles with no
// matching header are absent from the result.
func (s Schema) Resolve(headers []string) map[string]string {
	normalized := make(map[string]string, len(headers))
	for _, h := range headers {
		normalized[normalizeHeader(h)] = h
	}
	out := make(map[string]string)
	for role, aliases := range s.Aliases {
		for _, a := range aliases {
			if h, ok := normalized[normalizeHeader(a)]; ok {
				out[role] = h
				break
			}
		}
	}
	return out
}

// ExtraHeaders returns the source header for each configured extra column
// that is present.
func (s Schema) ExtraHeaders(headers []string) map[string]string {
	normalized := make(map[string]string, len(headers))
	for _, h := range headers {
		normalized[normalizeHeader(h)] = h
	}
	out := make(map[string]string)
	for _, e := range s.Extras {
		if h, ok := normalized[normalizeHeader(e)]; ok {
			out[e] = h
		}
	}
	return out
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// roleOrder fixes the order of Dataset.Columns.
var roleOrder = []string{ColumnDate, ColumnYear, ColumnState, ColumnType, ColumnCommodity, ColumnProduction}

// Columns returns the roles present in resolved, in canonical order.
func Columns(resolved map[string]string) []string {
	out := make([]string, 0, len(resolved))
	for _, role := range roleOrder {
		if _, ok := resolved[role]; ok {
			out = append(out, role)
		}
	}
	return out
}

// MineralSchema accepts the column names used by the national commodity
// statistics exports.
var MineralSchema = Schema{
	Aliases: map[string][]string{
		ColumnDate:       {"date", "period"},
		ColumnYear:       {"year"},
		ColumnState:      {"state", "region"},
		ColumnType:       {"type", "category", "mineral_type"},
		ColumnCommodity:  {"commodity", "mineral"},
		ColumnProduction: {"production", "quantity", "value"},
	},
}

// WaterSchema maps the river water quality export: measure becomes the
// commodity, status the type and proportion the production value.
var WaterSchema = Schema{
	Aliases: map[string][]string{
		ColumnDate:       {"date"},
		ColumnYear:       {"year"},
		ColumnState:      {"state", "basin", "river_basin"},
		ColumnType:       {"status", "class"},
		ColumnCommodity:  {"measure", "parameter"},
		ColumnProduction: {"proportion", "share", "value"},
	},
	Extras: []string{"basins_monitored"},
}

// TimberSchema maps the log production export.
var TimberSchema = Schema{
	Aliases: map[string][]string{
		ColumnDate:       {"date"},
		ColumnYear:       {"year"},
		ColumnState:      {"state", "region"},
		ColumnType:       {"product", "type", "category"},
		ColumnCommodity:  {"species", "commodity", "timber"},
		ColumnProduction: {"production", "volume", "quantity"},
	},
}

// SchemaFor returns the schema registered for a dataset name.
func SchemaFor(name string) (Schema, bool) {
	switch name {
	case MineralExtraction:
		return MineralSchema, true
	case WaterQuality:
		return WaterSchema, true
	case TimberProduction:
		return TimberSchema, true
	}
	return Schema{}, false
}

//Personal.AI order the ending
