package analyses

import (
	"time"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resume"
)

// aggregate merges both validated provider results into one report.
//
// isResume is the AND of both judgments: either provider calling the
// document a non-resume downgrades the whole verdict. The overall score is
// the scoring provider's own 0-100 value taken as-is.
func aggregate(r resume.Resume, score llm.ScoreResult, narrative llm.NarrativeResult, version string, at time.Time) AnalysisReport {
	comments := score.Comments
	if comments == nil {
		comments = []string{}
	}

	return AnalysisReport{
		Summary: Summary{
			OverallScore: score.OverallScore100,
			Scores: Scores{
				Structure: score.StructureScore,
				Skills:    score.SkillsScore,
				Keywords:  score.KeywordsScore,
				Grammar:   score.GrammarScore,
			},
			Comments: comments,
			IsResume: score.IsResume && narrative.IsResume,
		},
		Improvements:     narrative.Improvements,
		Rewrites:         narrative.Rewrites,
		NonResumeMessage: narrative.NonResumeMessage,
		ResumeData:       r,
		Metadata: Metadata{
			AnalyzedAt:      at.UTC(),
			AnalysisVersion: version,
		},
	}
}
