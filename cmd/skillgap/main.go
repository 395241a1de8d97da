// Command skillgap runs skill extraction and gap analysis from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"skill-gap/internal/app"
	"skill-gap/internal/config"
	"skill-gap/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "skillgap",
	Short:         "Compare a resume against a job description",
	Long:          "skillgap extracts canonical skills from resumes and job descriptions and reports which job skills the resume covers, partially covers or misses.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadTooling(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadTooling()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: "pretty",
		Output: cmd.ErrOrStderr(),
	})
	return cfg, log, nil
}

func newCore(cmd *cobra.Command) (*app.Core, config.Config, zerolog.Logger, error) {
	cfg, log, err := loadTooling(cmd)
	if err != nil {
		return nil, config.Config{}, log, err
	}
	core, err := app.NewCore(cfg, nil, log)
	if err != nil {
		return nil, config.Config{}, log, err
	}
	return core, cfg, log, nil
}
