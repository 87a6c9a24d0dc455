// Package reporting renders a dashboard payload into offline artefacts: an
// XLSX workbook with one sheet per dataset and PNG line charts.
package reporting

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// ============================================================================
// Payload model
// ============================================================================

// Payload keys that are not per-dataset sections.
const (
	keyRecommendations    = "recommendations"
	keyIntegratedAnalysis = "integrated_analysis"
	keyInsights           = "insights"
)

// Section is one dataset's slice of the payload with its values decoded.
type Section struct {
	Name     string
	Insights []string
	Status   string
	Message  string
	Error    string
	Synth    bool
	// Fields holds every other key, decoded into generic JSON values.
	Fields map[string]interface{}
}

// Title is the human form of the section name.
func (s Section) Title() string { return Title(s.Name) }

// FieldKeys returns the aggregate keys in sorted order.
func (s Section) FieldKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Report is a decoded dashboard payload.
type Report struct {
	Sections        []Section
	Recommendations []string
}

// Section returns the named section.
func (r *Report) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Parse decodes the /api/data payload.  Known datasets come first in their
// response order, any other object-valued keys follow alphabetically.
func Parse(body []byte) (*Report, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "payload is not a JSON object")
	}

	rep := &Report{}
	if rec, ok := raw[keyRecommendations]; ok {
		if err := json.Unmarshal(rec, &rep.Recommendations); err != nil {
			return nil, errors.Wrap(err, errors.CodeSerialization, "recommendations is not a string list")
		}
	}

	names := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(dataset.Names))
	for _, n := range dataset.Names {
		if _, ok := raw[n]; ok {
			names = append(names, n)
			seen[n] = true
		}
	}
	var extra []string
	for k := range raw {
		if !seen[k] && k != keyRecommendations && k != keyIntegratedAnalysis {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		sec, err := decodeSection(name, raw[name])
		if err != nil {
			return nil, err
		}
		rep.Sections = append(rep.Sections, sec)
	}
	return rep, nil
}

func decodeSection(name string, body json.RawMessage) (Section, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return Section{}, errors.Wrap(err, errors.CodeSerialization, "section is not a JSON object").
			WithDetail(name)
	}
	sec := Section{Name: name, Fields: fields}
	if list, ok := fields[keyInsights].([]interface{}); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				sec.Insights = append(sec.Insights, s)
			}
		}
	}
	sec.Status, _ = fields["status"].(string)
	sec.Message, _ = fields["message"].(string)
	sec.Error, _ = fields["error"].(string)
	sec.Synth, _ = fields["synthetic"].(bool)
	for _, k := range []string{keyInsights, "status", "message", "error", "synthetic"} {
		delete(fields, k)
	}
	return sec, nil
}

// Title turns "water_quality" into "Water Quality".
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

//Personal.AI order the ending
