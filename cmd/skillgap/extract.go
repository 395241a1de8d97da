package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"skill-gap/internal/document"
	"skill-gap/internal/usecase"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the skills found in a document",
	Long:  "Extract reads a txt, pdf or docx file and prints its technical and soft skills as JSON.",
	RunE:  runExtract,
}

var extractFile string

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a txt, pdf or docx document")
	_ = extractCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	text, err := readDocument(extractFile)
	if err != nil {
		return err
	}

	core, _, _, err := newCore(cmd)
	if err != nil {
		return err
	}

	res := usecase.NewSkillUsecase(core.Extractor).ExtractSkills(text)
	out := struct {
		Technical []string `json:"technical"`
		Soft      []string `json:"soft"`
	}{Technical: make([]string, 0, len(res.Technical)), Soft: make([]string, 0, len(res.Soft))}
	for _, c := range res.Technical {
		out.Technical = append(out.Technical, string(c))
	}
	for _, c := range res.Soft {
		out.Soft = append(out.Soft, string(c))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := document.ExtractText(filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}
