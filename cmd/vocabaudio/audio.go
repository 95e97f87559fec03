package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wuta/vocabaudio/internal/bootstrap"
	"github.com/wuta/vocabaudio/internal/synth"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

var _ pflag.Value = (*synth.Mode)(nil)

func newAudioCommand() *cobra.Command {
	audioCommand := &cobra.Command{
		Use:   "audio",
		Short: "Fetch or pre-generate pronunciation clips",
	}
	audioCommand.AddCommand(newAudioFetchCommand(), newAudioGenerateCommand())
	return audioCommand
}

func newAudioFetchCommand() *cobra.Command {
	mode := synth.ModeBilingual
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <term_id>",
		Short: "Return the clip of a term, generating it when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				result, err := c.Pipeline.FetchAudio(cmd.Context(), args[0], mode)
				if err != nil {
					return fmt.Errorf("FetchAudio(%s) > %w", args[0], err)
				}
				if output != "" {
					if err := os.WriteFile(output, result.Audio, 0644); err != nil {
						return fmt.Errorf("os.WriteFile(%s) > %w", output, err)
					}
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s (%s, %d bytes)\n", outcomeLabel(string(result.Outcome)), result.Path, mode, len(result.Audio))
				if result.Metadata != nil && result.Metadata.Error != "" {
					color.New(color.FgYellow).Fprintf(out, "  last error: %s\n", result.Metadata.Error)
				}
				return nil
			})
		},
	}
	cmd.Flags().Var(&mode, "mode", fmt.Sprintf("audio mode. Possible values are %v", synth.Modes))
	cmd.Flags().StringVarP(&output, "output", "o", "", "also copy the clip to this file")
	return cmd
}

func newAudioGenerateCommand() *cobra.Command {
	mode := synth.ModeBilingual
	var all bool

	cmd := &cobra.Command{
		Use:   "generate [term_id...]",
		Short: "Pre-generate clips for the given terms, or every canonical term with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("pass either term ids or --all")
			}
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				terms, err := selectTerms(cmd, c, args, all)
				if err != nil {
					return err
				}

				report, err := c.Pipeline.GenerateAll(cmd.Context(), terms, mode)
				if err != nil {
					return fmt.Errorf("GenerateAll() > %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nGenerate Summary (%s):\n", mode)
				fmt.Fprintf(out, "  Generated: %d\n", report.Generated)
				fmt.Fprintf(out, "  Reused:    %d\n", report.Reused)
				fmt.Fprintf(out, "  Degraded:  %d\n", report.Degraded)
				if len(report.Failed) == 0 {
					return nil
				}
				ids := make([]string, 0, len(report.Failed))
				for id := range report.Failed {
					ids = append(ids, id)
				}
				slices.Sort(ids)
				failed := color.New(color.FgRed)
				failed.Fprintf(out, "  Failed:    %d\n", len(ids))
				for _, id := range ids {
					failed.Fprintf(out, "    %s: %v\n", id, report.Failed[id])
				}
				return fmt.Errorf("%d of %d terms failed", len(ids), len(terms))
			})
		},
	}
	cmd.Flags().Var(&mode, "mode", fmt.Sprintf("audio mode. Possible values are %v", synth.Modes))
	cmd.Flags().BoolVar(&all, "all", false, "generate every canonical term")
	return cmd
}

func selectTerms(cmd *cobra.Command, c *bootstrap.Components, ids []string, all bool) ([]vocabulary.Term, error) {
	if all {
		return c.Canonical.Snapshot().Terms, nil
	}
	terms := make([]vocabulary.Term, 0, len(ids))
	for _, id := range ids {
		term, err := c.Resolver.Resolve(cmd.Context(), id)
		if err != nil {
			return nil, fmt.Errorf("Resolve(%s) > %w", id, err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case "generated":
		return color.GreenString("[GENERATED]")
	case "degraded":
		return color.YellowString("[DEGRADED]")
	default:
		return color.CyanString("[CACHED]")
	}
}
