package analyses

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"resume-analyzer/internal/credits"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resume"
)

type fakeScorer struct {
	calls  atomic.Int64
	result llm.ScoreResult
	err    error
	delay  time.Duration
}

func (f *fakeScorer) Analyze(ctx context.Context, r resume.Resume) (llm.ScoreResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return llm.ScoreResult{}, ctx.Err()
		}
	}
	return f.result, f.err
}

type fakeNarrator struct {
	calls  atomic.Int64
	result llm.NarrativeResult
	err    error
}

func (f *fakeNarrator) Analyze(ctx context.Context, r resume.Resume) (llm.NarrativeResult, error) {
	f.calls.Add(1)
	return f.result, f.err
}

type fakeLedger struct {
	balance      int
	deductErr    error
	recordErr    error
	deductCalls  int
	recordCalls  int
	deductedLast int
}

func (f *fakeLedger) HasSufficient(ctx context.Context, userID string, amount int) (bool, credits.Balance, error) {
	return f.balance >= amount, credits.Balance{UserID: userID, Credits: f.balance}, nil
}

func (f *fakeLedger) Deduct(ctx context.Context, userID string, amount int) (credits.Balance, error) {
	f.deductCalls++
	f.deductedLast = amount
	if f.deductErr != nil {
		return credits.Balance{}, f.deductErr
	}
	f.balance -= amount
	return credits.Balance{UserID: userID, Credits: f.balance}, nil
}

func (f *fakeLedger) RecordScan(ctx context.Context, userID, filename, fileType string, at time.Time) error {
	f.recordCalls++
	return f.recordErr
}

func buildTestDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := doc.Write(body.Bytes()); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	rels, err := zw.Create("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("create rels: %v", err)
	}
	if _, err := rels.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)); err != nil {
		t.Fatalf("write rels: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func resumeDocx(t *testing.T) []byte {
	return buildTestDocx(t, []string{
		"Jane Doe",
		"jane@x.com",
		"EDUCATION",
		"BS CS",
		"EXPERIENCE",
		"Intern at Acme",
	})
}

func validScore() llm.ScoreResult {
	return llm.ScoreResult{
		IsResume:        true,
		StructureScore:  8,
		SkillsScore:     7,
		KeywordsScore:   6,
		GrammarScore:    9,
		OverallScore100: 75,
		Comments:        []string{"solid"},
	}
}

func validNarrative() llm.NarrativeResult {
	return llm.NarrativeResult{
		IsResume:     true,
		Improvements: map[string]string{"Skills": "group by category"},
		Rewrites:     map[string]string{"Experience": "Interned at Acme building tooling."},
	}
}

func newTestService(scorer llm.Scorer, narrator llm.Narrator, ledger ledger) *Service {
	return NewService(scorer, narrator, ledger, "2.0", 5*time.Second)
}

func analyzeInput(t *testing.T) AnalyzeInput {
	return AnalyzeInput{
		UserID:   "user-1",
		Filename: "resume.docx",
		MimeType: extract.MimeDOCX,
		Data:     resumeDocx(t),
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	ledger := &fakeLedger{balance: credits.StartingCredits}
	svc := newTestService(scorer, narrator, ledger)

	report, err := svc.Analyze(context.Background(), analyzeInput(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !report.Summary.IsResume {
		t.Fatal("expected isResume true when both providers agree")
	}
	if report.Summary.OverallScore != 75 {
		t.Fatalf("OverallScore = %v, want 75", report.Summary.OverallScore)
	}
	if report.Summary.Scores.Grammar != 9 {
		t.Fatalf("Grammar = %v, want 9", report.Summary.Scores.Grammar)
	}
	if report.ResumeData.Name != "Jane Doe" {
		t.Fatalf("ResumeData.Name = %q", report.ResumeData.Name)
	}
	if report.Metadata.AnalysisVersion != "2.0" {
		t.Fatalf("AnalysisVersion = %q", report.Metadata.AnalysisVersion)
	}
	if report.Metadata.AnalyzedAt.IsZero() {
		t.Fatal("expected AnalyzedAt to be stamped")
	}
	if ledger.deductCalls != 1 || ledger.deductedLast != credits.ScanCost {
		t.Fatalf("deductCalls=%d deductedLast=%d", ledger.deductCalls, ledger.deductedLast)
	}
	if ledger.recordCalls != 1 {
		t.Fatalf("recordCalls = %d, want 1", ledger.recordCalls)
	}
}

func TestAnalyzeConservativeIsResume(t *testing.T) {
	score := validScore()
	score.IsResume = false
	narrative := validNarrative()
	narrative.NonResumeMessage = "This looks like a recipe."

	scorer := &fakeScorer{result: score}
	narrator := &fakeNarrator{result: narrative}
	svc := newTestService(scorer, narrator, &fakeLedger{balance: 500})

	report, err := svc.Analyze(context.Background(), analyzeInput(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Summary.IsResume {
		t.Fatal("expected isResume false when either provider disagrees")
	}
	if report.NonResumeMessage != "This looks like a recipe." {
		t.Fatalf("NonResumeMessage = %q", report.NonResumeMessage)
	}
}

func TestAnalyzeInsufficientCreditsSkipsProviders(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	ledger := &fakeLedger{balance: 20}
	svc := newTestService(scorer, narrator, ledger)

	_, err := svc.Analyze(context.Background(), analyzeInput(t))
	if !errors.Is(err, credits.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if scorer.calls.Load() != 0 || narrator.calls.Load() != 0 {
		t.Fatalf("providers must not be invoked without credits: scorer=%d narrator=%d",
			scorer.calls.Load(), narrator.calls.Load())
	}
	if ledger.deductCalls != 0 {
		t.Fatalf("deductCalls = %d, want 0", ledger.deductCalls)
	}
}

func TestAnalyzeOneProviderFailureFailsWholeRun(t *testing.T) {
	provErr := &llm.ProviderError{Provider: "deepseek", Err: errors.New("boom")}
	scorer := &fakeScorer{err: provErr}
	narrator := &fakeNarrator{result: validNarrative()}
	ledger := &fakeLedger{balance: 500}
	svc := newTestService(scorer, narrator, ledger)

	_, err := svc.Analyze(context.Background(), analyzeInput(t))
	if err == nil {
		t.Fatal("expected failure when one provider fails")
	}
	var got *llm.ProviderError
	if !errors.As(err, &got) || got.Provider != "deepseek" {
		t.Fatalf("expected wrapped deepseek ProviderError, got %v", err)
	}
	// Fan-in barrier: the healthy provider still ran to completion.
	if narrator.calls.Load() != 1 {
		t.Fatalf("narrator calls = %d, want 1", narrator.calls.Load())
	}
	if ledger.deductCalls != 0 {
		t.Fatal("no deduction on failed analysis")
	}
}

func TestAnalyzePostAnalysisDeductFailureStillReturnsReport(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	ledger := &fakeLedger{balance: 500, deductErr: errors.New("db down")}
	svc := newTestService(scorer, narrator, ledger)

	report, err := svc.Analyze(context.Background(), analyzeInput(t))
	if err != nil {
		t.Fatalf("expected report despite deduct failure, got %v", err)
	}
	if report.Summary.OverallScore != 75 {
		t.Fatalf("OverallScore = %v", report.Summary.OverallScore)
	}
	if ledger.deductCalls != 1 {
		t.Fatalf("deductCalls = %d, want 1", ledger.deductCalls)
	}
}

func TestAnalyzeInconsistentOverallRejected(t *testing.T) {
	score := validScore()
	score.OverallScore100 = 40 // far from 2.5 * (8+7+6+9) = 75

	scorer := &fakeScorer{result: score}
	narrator := &fakeNarrator{result: validNarrative()}
	svc := newTestService(scorer, narrator, &fakeLedger{balance: 500})

	_, err := svc.Analyze(context.Background(), analyzeInput(t))
	if !errors.Is(err, ErrInvalidProviderOutput) {
		t.Fatalf("expected ErrInvalidProviderOutput, got %v", err)
	}
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	svc := newTestService(scorer, narrator, &fakeLedger{balance: 500})

	in := analyzeInput(t)
	in.MimeType = "text/plain"
	in.Data = []byte("plain text")

	_, err := svc.Analyze(context.Background(), in)
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if scorer.calls.Load() != 0 {
		t.Fatal("extraction failure must abort before provider calls")
	}
}

func TestAnalyzeEmptyExtraction(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	svc := newTestService(scorer, narrator, &fakeLedger{balance: 500})

	in := analyzeInput(t)
	in.Data = buildTestDocx(t, []string{"   "})

	_, err := svc.Analyze(context.Background(), in)
	if !errors.Is(err, extract.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestAnalyzeAttachesJobDescription(t *testing.T) {
	scorer := &fakeScorer{result: validScore()}
	narrator := &fakeNarrator{result: validNarrative()}
	svc := newTestService(scorer, narrator, &fakeLedger{balance: 500})

	in := analyzeInput(t)
	in.JobDescription = "  Senior Go engineer  "

	report, err := svc.Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.ResumeData.JobDescription != "Senior Go engineer" {
		t.Fatalf("JobDescription = %q", report.ResumeData.JobDescription)
	}
}

func TestAnalyzeProviderTimeout(t *testing.T) {
	scorer := &fakeScorer{result: validScore(), delay: 200 * time.Millisecond}
	narrator := &fakeNarrator{result: validNarrative()}
	svc := NewService(scorer, narrator, &fakeLedger{balance: 500}, "2.0", 20*time.Millisecond)

	_, err := svc.Analyze(context.Background(), analyzeInput(t))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
