package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/docscore/internal/review"
	"github.com/dshills/docscore/internal/rubric"
)

func newRubricsCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "rubrics [class]",
		Short: "Print the built-in scoring rubrics",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRubrics(cmd.OutOrStdout(), args, asYAML)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print rubrics as YAML")
	return cmd
}

func runRubrics(w io.Writer, args []string, asYAML bool) error {
	classes, err := rubric.List()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		class := review.Class(args[0])
		if !class.Valid() {
			return exitError(exitUsage, "unknown class %q (want one of %v)", args[0], classes)
		}
		classes = []review.Class{class}
	}

	for i, class := range classes {
		r, err := rubric.LoadBuiltin(class)
		if err != nil {
			return err
		}
		if asYAML {
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encode %s rubric: %w", class, err)
			}
			if err := enc.Close(); err != nil {
				return err
			}
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, rubric.Format(r))
	}
	return nil
}
