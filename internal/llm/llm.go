package llm

import (
	"context"
	"errors"
	"fmt"

	"resume-analyzer/internal/resume"
)

// Scorer is the quantitative analysis capability: it rates the resume on four
// 0-10 axes plus a pre-computed 0-100 overall score.
type Scorer interface {
	Analyze(ctx context.Context, r resume.Resume) (ScoreResult, error)
}

// Narrator is the qualitative analysis capability: it suggests improvements
// and professional rewrites per section.
type Narrator interface {
	Analyze(ctx context.Context, r resume.Resume) (NarrativeResult, error)
}

// ScoreResult is the scoring provider's parsed response.
type ScoreResult struct {
	IsResume        bool     `json:"is_resume"`
	StructureScore  float64  `json:"structure_score"`
	SkillsScore     float64  `json:"skills_score"`
	KeywordsScore   float64  `json:"keywords_score"`
	GrammarScore    float64  `json:"grammar_score"`
	OverallScore100 float64  `json:"overall_score_100"`
	Comments        []string `json:"comments"`
}

// NarrativeResult is the rewriting provider's parsed response.
type NarrativeResult struct {
	IsResume         bool              `json:"is_resume"`
	Improvements     map[string]string `json:"improvements"`
	Rewrites         map[string]string `json:"rewrites"`
	NonResumeMessage string            `json:"non_resume_message,omitempty"`
}

// ErrMissingCredential means a provider has no configured API key. It is
// operator-actionable and never retryable, unlike transient call failures.
var ErrMissingCredential = errors.New("api key not configured")

// ProviderError wraps any transport, auth, or shape failure from a provider
// call so the raw upstream error never crosses the orchestrator boundary.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
