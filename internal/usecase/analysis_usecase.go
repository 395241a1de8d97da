package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"skill-gap/internal/document"
	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/gap"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
	"skill-gap/internal/export"
	"skill-gap/internal/extraction"
	"skill-gap/internal/fetcher"
	"skill-gap/internal/pipeline"
)

const (
	maxTextBytes = 1 << 20
	maxListLimit = 100
)

type Notifier interface {
	AnalysisCompleted(a analysis.Analysis)
	BatchCompleted(userID string, batchID uuid.UUID, total, succeeded, failed int)
}

type AnalysisConfig struct {
	Thresholds       matching.Thresholds
	EmbeddingTimeout time.Duration
	BatchWorkers     int
	MaxBatchJobs     int
	BatchRateLimit   int
	CacheTTL         time.Duration
}

type AnalysisDeps struct {
	Extractor      *extraction.Extractor
	Matcher        *matching.Matcher
	Repo           analysis.Repository
	Cache          ReportCache
	Fetcher        fetcher.Fetcher
	Notifier       Notifier
	EmbeddingModel string
	Log            zerolog.Logger
}

type AnalysisUsecase interface {
	Analyze(ctx context.Context, in AnalyzeInput) (analysis.Analysis, error)
	AnalyzeDocuments(ctx context.Context, in DocumentsInput) (analysis.Analysis, error)
	AnalyzeBatch(ctx context.Context, in BatchInput) (BatchResult, error)
	Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
	List(ctx context.Context, f analysis.ListFilter) ([]analysis.Analysis, error)
	Export(ctx context.Context, id uuid.UUID, format string) (ExportFile, error)
}

type Analysis struct {
	deps AnalysisDeps
	cfg  AnalysisConfig
	log  zerolog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewAnalysisUsecase(deps AnalysisDeps, cfg AnalysisConfig) *Analysis {
	if cfg.Thresholds == (matching.Thresholds{}) {
		cfg.Thresholds = matching.DefaultThresholds()
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 4
	}
	if cfg.MaxBatchJobs <= 0 {
		cfg.MaxBatchJobs = 20
	}
	return &Analysis{
		deps:  deps,
		cfg:   cfg,
		log:   deps.Log,
		now:   time.Now,
		newID: uuid.New,
	}
}

// ThresholdOverride carries optional per-request thresholds; unset fields
// fall back to the configured ones.
type ThresholdOverride struct {
	Match   *float64
	Partial *float64
}

type AnalyzeInput struct {
	UserID     string
	ResumeText string
	JDText     string
	JDURL      string
	Thresholds ThresholdOverride
}

type Document struct {
	Name string
	Data []byte
}

type DocumentsInput struct {
	UserID     string
	Resume     Document
	JD         Document
	Thresholds ThresholdOverride
}

type BatchInput struct {
	UserID     string
	ResumeText string
	JDTexts    []string
	Thresholds ThresholdOverride
}

type BatchItem struct {
	Index    int
	Analysis *analysis.Analysis
	Err      error
}

type BatchResult struct {
	BatchID   uuid.UUID
	Items     []BatchItem
	Succeeded int
	Failed    int
}

type ExportFile struct {
	ContentType string
	Filename    string
	Body        []byte
}

type job struct {
	userID  string
	source  analysis.Source
	jdURL   string
	batchID *uuid.UUID
	th      matching.Thresholds
}

func (u *Analysis) Analyze(ctx context.Context, in AnalyzeInput) (analysis.Analysis, error) {
	th, err := u.thresholds(in.Thresholds)
	if err != nil {
		return analysis.Analysis{}, err
	}
	if err := checkText("resume_text", in.ResumeText); err != nil {
		return analysis.Analysis{}, err
	}

	j := job{userID: in.UserID, source: analysis.SourceText, th: th}
	jdText := in.JDText
	if strings.TrimSpace(jdText) == "" {
		if strings.TrimSpace(in.JDURL) == "" {
			return analysis.Analysis{}, fmt.Errorf("%w: jd_text or jd_url is required", ErrInvalidInput)
		}
		jdText, err = u.fetch(ctx, in.JDURL)
		if err != nil {
			return analysis.Analysis{}, err
		}
		j.source = analysis.SourceURL
		j.jdURL = strings.TrimSpace(in.JDURL)
	}
	if err := checkText("jd_text", jdText); err != nil {
		return analysis.Analysis{}, err
	}

	resume := u.deps.Extractor.Extract(in.ResumeText)
	return u.run(ctx, j, resume, jdText)
}

func (u *Analysis) AnalyzeDocuments(ctx context.Context, in DocumentsInput) (analysis.Analysis, error) {
	th, err := u.thresholds(in.Thresholds)
	if err != nil {
		return analysis.Analysis{}, err
	}

	var resumeText, jdText string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := extractDocument("resume", in.Resume)
		resumeText = t
		return err
	})
	g.Go(func() error {
		t, err := extractDocument("jd", in.JD)
		jdText = t
		return err
	})
	if err := g.Wait(); err != nil {
		return analysis.Analysis{}, err
	}

	resume := u.deps.Extractor.Extract(resumeText)
	return u.run(ctx, job{userID: in.UserID, source: analysis.SourceUpload, th: th}, resume, jdText)
}

// AnalyzeBatch compares one resume against several job descriptions on the
// worker pool. Per-job failures are reported on their item; the call itself
// fails only for invalid input or when the batch cannot be recorded.
func (u *Analysis) AnalyzeBatch(ctx context.Context, in BatchInput) (BatchResult, error) {
	th, err := u.thresholds(in.Thresholds)
	if err != nil {
		return BatchResult{}, err
	}
	if err := checkText("resume_text", in.ResumeText); err != nil {
		return BatchResult{}, err
	}
	if len(in.JDTexts) == 0 || len(in.JDTexts) > u.cfg.MaxBatchJobs {
		return BatchResult{}, fmt.Errorf("%w: jd_texts must hold 1 to %d items", ErrInvalidInput, u.cfg.MaxBatchJobs)
	}
	for i, t := range in.JDTexts {
		if err := checkText(fmt.Sprintf("jd_texts[%d]", i), t); err != nil {
			return BatchResult{}, err
		}
	}

	batchID := u.newID()
	if err := u.deps.Repo.CreateBatch(ctx, analysis.Batch{
		ID:        batchID,
		UserID:    in.UserID,
		Total:     len(in.JDTexts),
		CreatedAt: u.now().UTC(),
	}); err != nil {
		u.log.Error().Err(err).Msg("create batch failed")
		return BatchResult{}, ErrInternal
	}

	resume := u.deps.Extractor.Extract(in.ResumeText)
	items := make([]BatchItem, len(in.JDTexts))
	j := job{userID: in.UserID, source: analysis.SourceBatch, batchID: &batchID, th: th}

	pool := pipeline.NewWorkerPool(u.cfg.BatchWorkers, len(in.JDTexts))
	pool.SetRateLimit(u.cfg.BatchRateLimit)
	results := pool.Run(ctx)
	for i, text := range in.JDTexts {
		i, text := i, text
		err := pool.Submit(ctx, pipeline.Task{ID: i, Run: func(ctx context.Context) error {
			a, err := u.run(ctx, j, resume, text)
			if err != nil {
				return err
			}
			items[i].Analysis = &a
			return nil
		}})
		if err != nil {
			break
		}
	}
	pool.Close()

	reported := make([]bool, len(items))
	for r := range results {
		reported[r.ID] = true
		items[r.ID].Err = r.Err
	}

	out := BatchResult{BatchID: batchID, Items: items}
	for i := range items {
		items[i].Index = i
		if !reported[i] && items[i].Analysis == nil && items[i].Err == nil {
			items[i].Err = ctxErr(ctx)
		}
		if items[i].Err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	if err := u.deps.Repo.FinishBatch(context.WithoutCancel(ctx), batchID, out.Succeeded, out.Failed, u.now().UTC()); err != nil {
		u.log.Warn().Err(err).Str("batch_id", batchID.String()).Msg("finish batch failed")
	}
	if u.deps.Notifier != nil {
		u.deps.Notifier.BatchCompleted(in.UserID, batchID, len(items), out.Succeeded, out.Failed)
	}

	u.log.Info().
		Str("batch_id", batchID.String()).
		Int("total", len(items)).
		Int("succeeded", out.Succeeded).
		Int("failed", out.Failed).
		Msg("batch analysis finished")

	return out, nil
}

func (u *Analysis) Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	key := AnalysisCacheKey(id)
	if u.deps.Cache != nil {
		var cached analysis.Analysis
		ok, err := u.deps.Cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.log.Warn().Err(err).Msg("analysis cache read failed")
		}
		if ok {
			return cached, nil
		}
	}

	a, err := u.deps.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			return analysis.Analysis{}, ErrAnalysisNotFound
		}
		u.log.Error().Err(err).Str("analysis_id", id.String()).Msg("load analysis failed")
		return analysis.Analysis{}, ErrInternal
	}
	u.cache(ctx, a)
	return a, nil
}

func (u *Analysis) List(ctx context.Context, f analysis.ListFilter) ([]analysis.Analysis, error) {
	if f.Limit < 0 || f.Limit > maxListLimit || f.Offset < 0 {
		return nil, fmt.Errorf("%w: limit must be 0..%d and offset non-negative", ErrInvalidInput, maxListLimit)
	}
	items, err := u.deps.Repo.List(ctx, f)
	if err != nil {
		u.log.Error().Err(err).Msg("list analyses failed")
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Analysis) Export(ctx context.Context, id uuid.UUID, format string) (ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return ExportFile{}, fmt.Errorf("%w: format must be json or csv", ErrInvalidInput)
	}

	a, err := u.Get(ctx, id)
	if err != nil {
		return ExportFile{}, err
	}

	name := "skill-gap-" + id.String()
	if format == "csv" {
		var buf bytes.Buffer
		if err := export.CSV(&buf, a.Report); err != nil {
			u.log.Error().Err(err).Msg("csv export failed")
			return ExportFile{}, ErrInternal
		}
		return ExportFile{ContentType: "text/csv; charset=utf-8", Filename: name + ".csv", Body: buf.Bytes()}, nil
	}

	b, err := export.JSON(a.Report)
	if err != nil {
		u.log.Error().Err(err).Msg("json export failed")
		return ExportFile{}, ErrInternal
	}
	if err := export.ValidateJSON(b); err != nil {
		u.log.Error().Err(err).Str("analysis_id", id.String()).Msg("exported report does not match schema")
		return ExportFile{}, ErrInternal
	}
	return ExportFile{ContentType: "application/json", Filename: name + ".json", Body: b}, nil
}

// run extracts the job skills, classifies them against the resume and stores
// the resulting analysis.
func (u *Analysis) run(ctx context.Context, j job, resume skill.Set, jdText string) (analysis.Analysis, error) {
	jd := u.deps.Extractor.Extract(jdText)

	cls, err := u.classify(ctx, resume, jd, j.th)
	if err != nil {
		return analysis.Analysis{}, err
	}

	now := u.now().UTC()
	a := analysis.Analysis{
		ID:             u.newID(),
		UserID:         j.userID,
		BatchID:        j.batchID,
		Source:         j.source,
		JDURL:          j.jdURL,
		Thresholds:     j.th,
		EmbeddingModel: u.deps.EmbeddingModel,
		Report:         gap.Build(resume, jd, cls, now),
		CreatedAt:      now,
	}

	if err := u.deps.Repo.Save(ctx, a); err != nil {
		u.log.Error().Err(err).Str("analysis_id", a.ID.String()).Msg("save analysis failed")
		return analysis.Analysis{}, ErrInternal
	}
	u.cache(ctx, a)
	if u.deps.Notifier != nil {
		u.deps.Notifier.AnalysisCompleted(a)
	}

	u.log.Info().
		Str("analysis_id", a.ID.String()).
		Str("source", string(a.Source)).
		Int("resume_skills", resume.Len()).
		Int("jd_skills", jd.Len()).
		Int("overall_score", a.Report.OverallScore).
		Msg("analysis completed")

	return a, nil
}

// classify runs the matcher. Empty skill sets are data rather than errors: no
// job skills yields no classifications, and no resume skills marks every job
// skill missing.
func (u *Analysis) classify(ctx context.Context, resume, jd skill.Set, th matching.Thresholds) ([]matching.Classification, error) {
	if jd.Len() == 0 {
		return []matching.Classification{}, nil
	}
	if resume.Len() == 0 {
		out := make([]matching.Classification, 0, jd.Len())
		for _, c := range jd.Sorted() {
			out = append(out, matching.Classification{Skill: c, Score: 0, Band: matching.BandMissing})
		}
		return out, nil
	}

	if u.cfg.EmbeddingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.cfg.EmbeddingTimeout)
		defer cancel()
	}

	res, err := u.deps.Matcher.Match(ctx, resume.Sorted(), jd.Sorted(), th)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		u.log.Error().Err(err).Msg("similarity match failed")
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	return res.Classifications, nil
}

func (u *Analysis) thresholds(o ThresholdOverride) (matching.Thresholds, error) {
	th := u.cfg.Thresholds
	if o.Match != nil {
		th.Match = *o.Match
	}
	if o.Partial != nil {
		th.Partial = *o.Partial
	}
	if err := th.Validate(); err != nil {
		return matching.Thresholds{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if th.Match > 1 {
		return matching.Thresholds{}, fmt.Errorf("%w: thresholds must not exceed 1", ErrInvalidInput)
	}
	return th, nil
}

func (u *Analysis) fetch(ctx context.Context, rawURL string) (string, error) {
	if u.deps.Fetcher == nil {
		return "", fmt.Errorf("%w: fetching is disabled", ErrFetchFailed)
	}
	text, err := u.deps.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, fetcher.ErrInvalidURL) {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		u.log.Warn().Err(err).Str("url", rawURL).Msg("job posting fetch failed")
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return text, nil
}

func (u *Analysis) cache(ctx context.Context, a analysis.Analysis) {
	if u.deps.Cache == nil {
		return
	}
	if err := u.deps.Cache.SetJSON(ctx, AnalysisCacheKey(a.ID), a, u.cfg.CacheTTL); err != nil {
		u.log.Warn().Err(err).Msg("analysis cache write failed")
	}
}

func extractDocument(field string, d Document) (string, error) {
	if len(d.Data) == 0 {
		return "", fmt.Errorf("%w: %s file is required", ErrInvalidInput, field)
	}
	if len(d.Data) > 10*maxTextBytes {
		return "", fmt.Errorf("%w: %s file is too large", ErrInvalidInput, field)
	}
	text, err := document.ExtractText(d.Name, d.Data)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, document.ErrUnsupportedFormat):
		return "", fmt.Errorf("%w: %s", ErrDocumentUnsupported, field)
	default:
		return "", fmt.Errorf("%w: %s", ErrDocumentUnreadable, field)
	}
}

func checkText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	if len(text) > maxTextBytes {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidInput, field, maxTextBytes)
	}
	return nil
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}
