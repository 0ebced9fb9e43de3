package analyses

import (
	"errors"
	"testing"

	"resume-analyzer/internal/llm"
)

func TestValidateScore(t *testing.T) {
	base := llm.ScoreResult{
		IsResume:        true,
		StructureScore:  8,
		SkillsScore:     7,
		KeywordsScore:   6,
		GrammarScore:    9,
		OverallScore100: 75,
	}

	tests := []struct {
		name    string
		mutate  func(*llm.ScoreResult)
		wantErr bool
	}{
		{"valid", func(r *llm.ScoreResult) {}, false},
		{"overall within tolerance", func(r *llm.ScoreResult) { r.OverallScore100 = 75.9 }, false},
		{"overall outside tolerance", func(r *llm.ScoreResult) { r.OverallScore100 = 80 }, true},
		{"category above range", func(r *llm.ScoreResult) { r.StructureScore = 11 }, true},
		{"category below range", func(r *llm.ScoreResult) { r.GrammarScore = -1 }, true},
		{"overall above range", func(r *llm.ScoreResult) { r.OverallScore100 = 101 }, true},
		{"zero scores consistent", func(r *llm.ScoreResult) {
			*r = llm.ScoreResult{IsResume: false}
		}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			err := validateScore(r)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProviderOutput) {
					t.Fatalf("expected ErrInvalidProviderOutput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateScore: %v", err)
			}
		})
	}
}

func TestValidateNarrative(t *testing.T) {
	valid := llm.NarrativeResult{
		IsResume:     true,
		Improvements: map[string]string{},
		Rewrites:     map[string]string{},
	}
	if err := validateNarrative(valid); err != nil {
		t.Fatalf("validateNarrative: %v", err)
	}

	missingImprovements := valid
	missingImprovements.Improvements = nil
	if err := validateNarrative(missingImprovements); !errors.Is(err, ErrInvalidProviderOutput) {
		t.Fatalf("expected ErrInvalidProviderOutput, got %v", err)
	}

	missingRewrites := valid
	missingRewrites.Rewrites = nil
	if err := validateNarrative(missingRewrites); !errors.Is(err, ErrInvalidProviderOutput) {
		t.Fatalf("expected ErrInvalidProviderOutput, got %v", err)
	}
}
