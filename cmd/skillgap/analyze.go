package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"skill-gap/internal/domain/matching"
	"skill-gap/internal/embedding"
	"skill-gap/internal/logger"
	"skill-gap/internal/repository"
	"skill-gap/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a resume with a job description",
	Long:  "Analyze extracts skills from both documents, scores every job skill against the resume and writes the gap report as JSON or CSV.",
	RunE:  runAnalyze,
}

var (
	analyzeResume  string
	analyzeJD      string
	analyzeFormat  string
	analyzeOut     string
	analyzeMatch   float64
	analyzePartial float64
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume (txt, pdf or docx)")
	analyzeCmd.Flags().StringVarP(&analyzeJD, "jd", "j", "", "Path to the job description (txt, pdf or docx)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Output format: json or csv")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output file (default stdout)")
	analyzeCmd.Flags().Float64Var(&analyzeMatch, "match-threshold", 0, "Override MATCH_THRESHOLD")
	analyzeCmd.Flags().Float64Var(&analyzePartial, "partial-threshold", 0, "Override PARTIAL_THRESHOLD")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	resume, err := os.ReadFile(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jd, err := os.ReadFile(analyzeJD)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	core, cfg, log, err := newCore(cmd)
	if err != nil {
		return err
	}

	uc := usecase.NewAnalysisUsecase(usecase.AnalysisDeps{
		Extractor:      core.Extractor,
		Matcher:        core.Matcher,
		Repo:           repository.NewMemoryAnalysisRepository(1),
		EmbeddingModel: embedding.ModelName(core.Embedder),
		Log:            logger.Component(log, "analysis"),
	}, usecase.AnalysisConfig{
		Thresholds: matching.Thresholds{
			Match:   cfg.Matching.MatchThreshold,
			Partial: cfg.Matching.PartialThreshold,
		},
		EmbeddingTimeout: cfg.Embedding.Timeout,
	})

	var th usecase.ThresholdOverride
	if cmd.Flags().Changed("match-threshold") {
		th.Match = &analyzeMatch
	}
	if cmd.Flags().Changed("partial-threshold") {
		th.Partial = &analyzePartial
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := uc.AnalyzeDocuments(ctx, usecase.DocumentsInput{
		Resume:     usecase.Document{Name: filepath.Base(analyzeResume), Data: resume},
		JD:         usecase.Document{Name: filepath.Base(analyzeJD), Data: jd},
		Thresholds: th,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	f, err := uc.Export(ctx, a.ID, analyzeFormat)
	if err != nil {
		return err
	}

	if analyzeOut == "" {
		_, err = cmd.OutOrStdout().Write(f.Body)
		return err
	}
	if err := os.WriteFile(analyzeOut, f.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s report to %s (score %d, %s)\n",
		analyzeFormat, analyzeOut, a.Report.OverallScore, a.Report.Readiness())
	return nil
}
