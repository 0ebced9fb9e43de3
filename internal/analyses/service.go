package analyses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-analyzer/internal/credits"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/resume"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

type ledger interface {
	HasSufficient(ctx context.Context, userID string, amount int) (bool, credits.Balance, error)
	Deduct(ctx context.Context, userID string, amount int) (credits.Balance, error)
	RecordScan(ctx context.Context, userID, filename, fileType string, at time.Time) error
}

// Service runs the analysis pipeline: extraction, structuring, concurrent
// provider fan-out, validation, aggregation, and post-analysis accounting.
type Service struct {
	scorer          llm.Scorer
	narrator        llm.Narrator
	ledger          ledger
	analysisVersion string
	providerTimeout time.Duration
}

// NewService constructs a Service.
func NewService(scorer llm.Scorer, narrator llm.Narrator, creditLedger ledger, analysisVersion string, providerTimeout time.Duration) *Service {
	return &Service{
		scorer:          scorer,
		narrator:        narrator,
		ledger:          creditLedger,
		analysisVersion: analysisVersion,
		providerTimeout: providerTimeout,
	}
}

// AnalyzeInput carries one upload through the pipeline.
type AnalyzeInput struct {
	UserID         string
	Filename       string
	MimeType       string
	Data           []byte
	JobDescription string
}

// Analyze runs the full pipeline for one upload.
//
// Credits are checked before any paid work and deducted only after a report
// exists. A deduction or history-recording failure at that point is logged
// and the report is still returned: losing one deduction is preferable to
// discarding a completed analysis.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (AnalysisReport, error) {
	started := time.Now()
	metrics.IncScanStarted()

	report, err := s.analyze(ctx, in)
	if err != nil {
		metrics.IncScanFailed()
		return AnalysisReport{}, err
	}

	metrics.IncScanCompleted()
	metrics.ObserveScanDurationMs(float64(time.Since(started).Milliseconds()))
	return report, nil
}

func (s *Service) analyze(ctx context.Context, in AnalyzeInput) (AnalysisReport, error) {
	ok, balance, err := s.ledger.HasSufficient(ctx, in.UserID, credits.ScanCost)
	if err != nil {
		// Fail closed: an unreadable balance never grants a free scan.
		telemetry.Warn("credits.check_failed", map[string]any{
			"user_id": in.UserID,
			"error":   err.Error(),
		})
		return AnalysisReport{}, credits.ErrInsufficientCredits
	}
	if !ok {
		telemetry.Info("credits.insufficient", map[string]any{
			"user_id": in.UserID,
			"credits": balance.Credits,
		})
		return AnalysisReport{}, credits.ErrInsufficientCredits
	}

	text, err := extract.Text(in.Data, in.MimeType)
	if err != nil {
		return AnalysisReport{}, err
	}
	if strings.TrimSpace(text) == "" {
		return AnalysisReport{}, extract.ErrNoText
	}

	structured := resume.Structure(text)
	structured.JobDescription = strings.TrimSpace(in.JobDescription)

	score, narrative, err := s.fanOut(ctx, structured)
	if err != nil {
		return AnalysisReport{}, err
	}

	if err := validateScore(score); err != nil {
		return AnalysisReport{}, err
	}
	if err := validateNarrative(narrative); err != nil {
		return AnalysisReport{}, err
	}

	report := aggregate(structured, score, narrative, s.analysisVersion, time.Now())

	s.settle(ctx, in)

	return report, nil
}

// fanOut invokes both providers concurrently and waits for both outcomes.
// The plain errgroup (not WithContext) is deliberate: one provider failing
// must not cancel the other, since the report needs both results and the
// error should name every provider that actually failed, not whichever was
// cancelled.
func (s *Service) fanOut(ctx context.Context, structured resume.Resume) (llm.ScoreResult, llm.NarrativeResult, error) {
	callCtx := ctx
	if s.providerTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.providerTimeout)
		defer cancel()
	}

	var (
		score     llm.ScoreResult
		narrative llm.NarrativeResult
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		score, err = s.scorer.Analyze(callCtx, structured)
		return err
	})
	g.Go(func() error {
		var err error
		narrative, err = s.narrator.Analyze(callCtx, structured)
		return err
	})
	if err := g.Wait(); err != nil {
		return llm.ScoreResult{}, llm.NarrativeResult{}, fmt.Errorf("analysis pipeline: %w", err)
	}
	return score, narrative, nil
}

// settle performs the post-analysis accounting. Failures here are logged,
// never returned: the report is already built and the caller gets it.
func (s *Service) settle(ctx context.Context, in AnalyzeInput) {
	if _, err := s.ledger.Deduct(ctx, in.UserID, credits.ScanCost); err != nil {
		telemetry.Warn("credits.deduct_failed", map[string]any{
			"user_id": in.UserID,
			"amount":  credits.ScanCost,
			"error":   err.Error(),
		})
	}
	if err := s.ledger.RecordScan(ctx, in.UserID, in.Filename, in.MimeType, time.Now()); err != nil {
		telemetry.Warn("credits.record_scan_failed", map[string]any{
			"user_id":   in.UserID,
			"file_name": in.Filename,
			"error":     err.Error(),
		})
	}
}
