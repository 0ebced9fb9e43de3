package analyses

import (
	"time"

	"resume-analyzer/internal/resume"
)

// Scores are the four 0-10 category ratings from the scoring provider.
type Scores struct {
	Structure float64 `json:"structure"`
	Skills    float64 `json:"skills"`
	Keywords  float64 `json:"keywords"`
	Grammar   float64 `json:"grammar"`
}

// Summary is the quantitative half of a report.
type Summary struct {
	OverallScore float64  `json:"overallScore"`
	Scores       Scores   `json:"scores"`
	Comments     []string `json:"comments"`
	IsResume     bool     `json:"isResume"`
}

// Metadata stamps when and under which aggregation rule a report was built.
type Metadata struct {
	AnalyzedAt      time.Time `json:"analyzedAt"`
	AnalysisVersion string    `json:"analysisVersion"`
}

// AnalysisReport is the merged output of both providers. Immutable once
// built; callers receive it by value.
type AnalysisReport struct {
	Summary          Summary           `json:"summary"`
	Improvements     map[string]string `json:"improvements"`
	Rewrites         map[string]string `json:"rewrites"`
	NonResumeMessage string            `json:"nonResumeMessage,omitempty"`
	ResumeData       resume.Resume     `json:"resumeData"`
	Metadata         Metadata          `json:"metadata"`
}
