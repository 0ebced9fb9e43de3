package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject means the provider output contained no JSON object at all,
// not even one buried in surrounding prose.
var ErrNoJSONObject = errors.New("no JSON object found in provider output")

// FirstJSONObject returns the substring spanning the first '{' through the
// last '}' of s. Providers occasionally wrap their JSON in markdown fences or
// prose; this greedy cut recovers the object in those cases.
func FirstJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}
	return s[start : end+1], nil
}

// scoreShape mirrors ScoreResult with pointer fields so a missing key is
// distinguishable from a zero value.
type scoreShape struct {
	IsResume        *bool    `json:"is_resume"`
	StructureScore  *float64 `json:"structure_score"`
	SkillsScore     *float64 `json:"skills_score"`
	KeywordsScore   *float64 `json:"keywords_score"`
	GrammarScore    *float64 `json:"grammar_score"`
	OverallScore100 *float64 `json:"overall_score_100"`
	Comments        []string `json:"comments"`
}

// ParseScoreResult decodes provider output into a ScoreResult. The raw text
// is parsed as-is first; on failure the embedded JSON object is recovered and
// parsed instead. Every scalar field must be present and correctly typed.
func ParseScoreResult(raw string) (ScoreResult, error) {
	var shape scoreShape
	if err := decodeWithRecovery(raw, &shape); err != nil {
		return ScoreResult{}, err
	}
	if shape.IsResume == nil || shape.StructureScore == nil || shape.SkillsScore == nil ||
		shape.KeywordsScore == nil || shape.GrammarScore == nil || shape.OverallScore100 == nil {
		return ScoreResult{}, errors.New("score response missing required fields")
	}
	return ScoreResult{
		IsResume:        *shape.IsResume,
		StructureScore:  *shape.StructureScore,
		SkillsScore:     *shape.SkillsScore,
		KeywordsScore:   *shape.KeywordsScore,
		GrammarScore:    *shape.GrammarScore,
		OverallScore100: *shape.OverallScore100,
		Comments:        shape.Comments,
	}, nil
}

type narrativeShape struct {
	IsResume         *bool             `json:"is_resume"`
	Improvements     map[string]string `json:"improvements"`
	Rewrites         map[string]string `json:"rewrites"`
	NonResumeMessage string            `json:"non_resume_message"`
}

// ParseNarrativeResult decodes provider output into a NarrativeResult.
// is_resume must be present; improvements and rewrites are normalized to
// non-nil maps so callers never branch on nil.
func ParseNarrativeResult(raw string) (NarrativeResult, error) {
	var shape narrativeShape
	if err := decodeWithRecovery(raw, &shape); err != nil {
		return NarrativeResult{}, err
	}
	if shape.IsResume == nil {
		return NarrativeResult{}, errors.New("narrative response missing is_resume")
	}
	if shape.Improvements == nil {
		shape.Improvements = map[string]string{}
	}
	if shape.Rewrites == nil {
		shape.Rewrites = map[string]string{}
	}
	return NarrativeResult{
		IsResume:         *shape.IsResume,
		Improvements:     shape.Improvements,
		Rewrites:         shape.Rewrites,
		NonResumeMessage: shape.NonResumeMessage,
	}, nil
}

func decodeWithRecovery(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}
	obj, err := FirstJSONObject(trimmed)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(obj), v)
}
