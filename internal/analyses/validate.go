package analyses

import (
	"fmt"
	"math"

	"resume-analyzer/internal/llm"
)

// overallTolerance bounds how far the provider's pre-computed 0-100 overall
// may drift from 2.5x the category sum before the result is rejected. One
// point absorbs provider-side rounding.
const overallTolerance = 1.0

// validateScore checks ranges and internal consistency of a scoring result.
// The overall value is accepted as the provider computed it; it is only
// cross-checked, never re-derived.
func validateScore(r llm.ScoreResult) error {
	categories := map[string]float64{
		"structure_score": r.StructureScore,
		"skills_score":    r.SkillsScore,
		"keywords_score":  r.KeywordsScore,
		"grammar_score":   r.GrammarScore,
	}
	for name, v := range categories {
		if v < 0 || v > 10 {
			return fmt.Errorf("%w: %s %v out of range", ErrInvalidProviderOutput, name, v)
		}
	}
	if r.OverallScore100 < 0 || r.OverallScore100 > 100 {
		return fmt.Errorf("%w: overall_score_100 %v out of range", ErrInvalidProviderOutput, r.OverallScore100)
	}

	expected := (r.StructureScore + r.SkillsScore + r.KeywordsScore + r.GrammarScore) * 2.5
	if math.Abs(r.OverallScore100-expected) > overallTolerance {
		return fmt.Errorf("%w: overall_score_100 %v inconsistent with category sum (expected ~%v)",
			ErrInvalidProviderOutput, r.OverallScore100, expected)
	}
	return nil
}

// validateNarrative requires non-nil improvement and rewrite maps. The
// parser normalizes absent maps to empty ones, so nil here means a caller
// bypassed it.
func validateNarrative(r llm.NarrativeResult) error {
	if r.Improvements == nil {
		return fmt.Errorf("%w: improvements map is nil", ErrInvalidProviderOutput)
	}
	if r.Rewrites == nil {
		return fmt.Errorf("%w: rewrites map is nil", ErrInvalidProviderOutput)
	}
	return nil
}
