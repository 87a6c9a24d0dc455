package llm

import (
	"encoding/json"
	"strings"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Analysis is the structured reply expected for a single dataset.
type Analysis struct {
	Insights     []string `json:"insights"`
	Problems     []string `json:"problems"`
	KeyPoints    []string `json:"key_points"`
	Trends       []string `json:"trends"`
	Correlations []string `json:"correlations"`
	// Fallback is true when the canned analysis was substituted.
	Fallback bool `json:"fallback,omitempty"`
}

// IntegratedAnalysis is the structured reply for the cross-dataset prompt.
type IntegratedAnalysis struct {
	IntegratedInsights []string `json:"integrated_insights"`
	SystemicProblems   []string `json:"systemic_problems"`
	Recommendations    []string `json:"recommendations"`
	Fallback           bool     `json:"fallback,omitempty"`
}

// CannedAnalysis is substituted whenever the insight service is disabled,
// unreachable or replies with text that is not the expected JSON.
func CannedAnalysis() *Analysis {
	return &Analysis{
		Insights: []string{
			"Water quality in major river basins shows concerning levels of pollution",
			"Industrial areas show higher concentrations of heavy metals in water sources",
			"Seasonal variations affect water quality metrics significantly",
		},
		Problems: []string{
			"Inadequate wastewater treatment in rapidly developing urban areas",
			"Agricultural runoff contributing to high nitrogen levels in water bodies",
			"Mining activities causing heavy metal contamination in nearby water sources",
		},
		KeyPoints: []string{
			"Need for improved water treatment infrastructure in urban centers",
			"Importance of buffer zones between industrial areas and water sources",
			"Potential for green infrastructure to mitigate urban runoff issues",
		},
		Trends: []string{
			"Declining water quality correlates with increased urbanization",
			"Improvement in areas where sustainable practices have been implemented",
			"Seasonal patterns showing worse water quality during monsoon seasons",
		},
		Correlations: []string{
			"Strong correlation between timber harvesting and downstream water turbidity",
			"Mineral extraction activities show relationship with heavy metal presence in water",
			"Urban density correlates with decreased dissolved oxygen levels in nearby water bodies",
		},
		Fallback: true,
	}
}

// CannedIntegratedAnalysis is the cross-dataset counterpart of
// CannedAnalysis.
func CannedIntegratedAnalysis() *IntegratedAnalysis {
	return &IntegratedAnalysis{
		IntegratedInsights: []string{
			"Strong correlation between mining activities and downstream water quality degradation.",
			"Regions with sustainable timber practices show better overall environmental health metrics.",
			"Urban development pressure is creating competing demands for water resources and land use.",
		},
		SystemicProblems: []string{
			"Lack of integrated planning across resource management sectors.",
			"Economic development priorities often override environmental protection measures.",
			"Insufficient data sharing between agencies hampers coordinated response.",
		},
		Recommendations: []string{
			"Implement integrated watershed management approaches across all resource sectors.",
			"Develop cross-sector sustainability metrics and reporting requirements.",
			"Increase community involvement in environmental monitoring and decision-making.",
		},
		Fallback: true,
	}
}

// StripCodeFences removes a surrounding markdown code fence such as
// ```json ... ``` from a model reply.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line.
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseAnalysis decodes a model reply into an Analysis.  A reply that is not
// a JSON object, or that carries none of the expected keys, is rejected with
// CodeAIReplyInvalid.
func ParseAnalysis(reply string) (*Analysis, error) {
	var a Analysis
	if err := decodeReply(reply, &a); err != nil {
		return nil, err
	}
	if len(a.Insights)+len(a.Problems)+len(a.KeyPoints)+len(a.Trends)+len(a.Correlations) == 0 {
		return nil, errors.New(errors.CodeAIReplyInvalid, "reply has none of the expected keys")
	}
	a.Fallback = false
	return &a, nil
}

// ParseIntegratedAnalysis decodes a cross-dataset reply.
func ParseIntegratedAnalysis(reply string) (*IntegratedAnalysis, error) {
	var a IntegratedAnalysis
	if err := decodeReply(reply, &a); err != nil {
		return nil, err
	}
	if len(a.IntegratedInsights)+len(a.SystemicProblems)+len(a.Recommendations) == 0 {
		return nil, errors.New(errors.CodeAIReplyInvalid, "reply has none of the expected keys")
	}
	a.Fallback = false
	return &a, nil
}

func decodeReply(reply string, dest interface{}) error {
	text := StripCodeFences(reply)
	if text == "" {
		return errors.New(errors.CodeAIReplyInvalid, "empty reply")
	}
	if err := json.Unmarshal([]byte(text), dest); err != nil {
		return errors.Wrap(err, errors.CodeAIReplyInvalid, "reply is not valid JSON")
	}
	return nil
}

//Personal.AI order the ending
