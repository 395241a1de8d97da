package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skill-gap/internal/usecase"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the known skills and their aliases",
	RunE:  runSkills,
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	core, _, _, err := newCore(cmd)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tCATEGORY\tALIASES")
	for _, it := range usecase.NewSkillUsecase(core.Extractor).ListSkills() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Display, it.Category, strings.Join(it.Aliases, ", "))
	}
	return tw.Flush()
}
