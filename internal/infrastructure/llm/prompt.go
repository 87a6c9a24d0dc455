package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Template names.  Dataset templates are keyed by dataset name.
const (
	TemplateMineral    = "mineral_extraction"
	TemplateWater      = "water_quality"
	TemplateTimber     = "timber_production"
	TemplateIntegrated = "integrated"
)

// maxSampleChars bounds the sample block embedded in a prompt.
const maxSampleChars = 24000

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptData is rendered into a dataset template.
type PromptData struct {
	Label       string
	RecordCount int
	SampleSize  int
	// Summary and Sample are embedded as indented JSON.
	Summary interface{}
	Sample  interface{}
	Columns []string
}

// IntegratedPromptData is rendered into the cross-dataset template.
type IntegratedPromptData struct {
	// Summaries maps dataset labels to their aggregate summaries.
	Summaries map[string]interface{}
}

// BuiltPrompt is an assembled chat prompt.
type BuiltPrompt struct {
	SystemPrompt    string    `json:"system_prompt"`
	UserPrompt      string    `json:"user_prompt"`
	Messages        []Message `json:"messages"`
	EstimatedTokens int       `json:"estimated_tokens"`
}

const datasetInstructions = `Please provide:
1. Key insights (3-5 points)
2. Major problems identified (3-5 points)
3. Key points for sustainable urban development (3-5 points)
4. Trends over time (if temporal data is available)
5. Correlations with other environmental factors (if possible)

Format your response as a JSON object with the keys "insights", "problems", "key_points", "trends" and "correlations", each holding a list of strings.`

var builtinTemplates = map[string]string{
	TemplateMineral: `Analyze the following mineral extraction data from Malaysia and provide insights.
The dataset has {{.RecordCount}} records with columns {{join .Columns ", "}}.

## Aggregate summary
{{toJSON .Summary}}

## Sample records ({{.SampleSize}})
{{sample .Sample}}

Focus on extraction volumes by state, fast-growing and declining commodities, and the environmental pressure of the dominant mineral types.

` + datasetInstructions,

	TemplateWater: `Analyze the following water quality data from Malaysian river basins and provide insights.
The dataset has {{.RecordCount}} records with columns {{join .Columns ", "}}.

## Aggregate summary
{{toJSON .Summary}}

## Sample records ({{.SampleSize}})
{{sample .Sample}}

Focus on the share of clean readings per measure (BOD5, NH3-N, SS), how it changes over time, and the likely pollution sources.

` + datasetInstructions,

	TemplateTimber: `Analyze the following timber production data from Malaysia and provide insights.
The dataset has {{.RecordCount}} records with columns {{join .Columns ", "}}.

## Aggregate summary
{{toJSON .Summary}}

## Sample records ({{.SampleSize}})
{{sample .Sample}}

Focus on production by state and species, the sustainability of harvesting trends, and the effect on forest cover and water catchments.

` + datasetInstructions,

	TemplateIntegrated: `Analyze the relationships between mineral extraction, water quality and timber production in Malaysia using the summaries below.
{{range $label, $summary := .Summaries}}
## {{$label}}
{{toJSON $summary}}
{{end}}
Please provide:
1. Integrated insights across the datasets (3-5 points)
2. Systemic problems that span resource sectors (3-5 points)
3. Recommendations for sustainable urban development (3-5 points)

Format your response as a JSON object with the keys "integrated_insights", "systemic_problems" and "recommendations", each holding a list of strings.`,
}

// PromptManager renders the built-in prompt templates.  It is safe for
// concurrent use.
type PromptManager struct {
	mu           sync.RWMutex
	templates    map[string]*template.Template
	systemPrompt string
}

// NewPromptManager parses the built-in templates.  systemPrompt is sent as
// the first chat message of every prompt.
func NewPromptManager(systemPrompt string) (*PromptManager, error) {
	pm := &PromptManager{templates: make(map[string]*template.Template), systemPrompt: systemPrompt}
	for name, raw := range builtinTemplates {
		if err := pm.RegisterTemplate(name, raw); err != nil {
			return nil, fmt.Errorf("registering built-in template %s: %w", name, err)
		}
	}
	return pm, nil
}

// RegisterTemplate parses raw and stores it under name, replacing any
// previous template with that name.
func (pm *PromptManager) RegisterTemplate(name, raw string) error {
	t, err := template.New(name).Funcs(defaultFuncMap()).Option("missingkey=zero").Parse(raw)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam, "invalid prompt template").WithDetail(name)
	}
	pm.mu.Lock()
	pm.templates[name] = t
	pm.mu.Unlock()
	return nil
}

// Render executes the named template against data.
func (pm *PromptManager) Render(name string, data interface{}) (string, error) {
	pm.mu.RLock()
	t, ok := pm.templates[name]
	pm.mu.RUnlock()
	if !ok {
		return "", errors.NotFound("prompt template not found").WithDetail(name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to render prompt").WithDetail(name)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Build renders the named template and wraps it with the system prompt.
func (pm *PromptManager) Build(name string, data interface{}) (*BuiltPrompt, error) {
	user, err := pm.Render(name, data)
	if err != nil {
		return nil, err
	}
	return &BuiltPrompt{
		SystemPrompt: pm.systemPrompt,
		UserPrompt:   user,
		Messages: []Message{
			{Role: "system", Content: pm.systemPrompt},
			{Role: "user", Content: user},
		},
		EstimatedTokens: EstimateTokenCount(pm.systemPrompt) + EstimateTokenCount(user),
	}, nil
}

// EstimateTokenCount approximates the token count of English text at four
// characters per token.
func EstimateTokenCount(text string) int {
	if text == "" {
		return 0
	}
	tokens := float64(utf8.RuneCountInString(text)) * 0.25
	if tokens < 1 {
		return 1
	}
	return int(tokens + 0.5)
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"join":     strings.Join,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"truncate": templateTruncate,
		"toJSON":   templateJSON,
		"sample":   templateSample,
	}
}

func templateTruncate(maxLen int, s string) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// templateSample renders sample records as JSON, cut to maxSampleChars.
func templateSample(v interface{}) string {
	return templateTruncate(maxSampleChars, templateJSON(v))
}

func templateJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

//Personal.AI order the ending
