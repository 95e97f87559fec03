package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wuta/vocabaudio/internal/bootstrap"
	"github.com/wuta/vocabaudio/internal/vocabulary"
)

func newTermCommand() *cobra.Command {
	termCommand := &cobra.Command{
		Use:   "term",
		Short: "Manage user-added terms",
	}
	termCommand.AddCommand(newTermAddCommand(), newTermRemoveCommand(), newTermListCommand())
	return termCommand
}

func newTermAddCommand() *cobra.Command {
	var term vocabulary.Term
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a term that can be requested by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			term.English = strings.TrimSpace(term.English)
			term.Hangul = strings.TrimSpace(term.Hangul)
			if term.English == "" && term.Hangul == "" {
				return fmt.Errorf("--english or --hangul is required")
			}
			if term.ID == "" {
				term.ID = "user-" + uuid.NewString()
			}
			term.CreatedAt = time.Now().UTC()

			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				if _, err := c.Resolver.Resolve(cmd.Context(), term.ID); err == nil {
					return fmt.Errorf("term %q already exists", term.ID)
				} else if !errors.Is(err, vocabulary.ErrTermNotFound) {
					return fmt.Errorf("Resolve(%s) > %w", term.ID, err)
				}
				if err := c.UserTerms.Create(cmd.Context(), &term); err != nil {
					return fmt.Errorf("Create() > %w", err)
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added term %s\n", term.ID)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&term.ID, "id", "", "term id. Generated when empty")
	flags.StringVar(&term.English, "english", "", "English text")
	flags.StringVar(&term.Hangul, "hangul", "", "Korean text")
	flags.StringVar(&term.Romanization, "romanization", "", "romanized pronunciation")
	flags.StringVar(&term.Category, "category", "", "category")
	return cmd
}

func newTermRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a user-added term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				deleted, err := c.UserTerms.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("Delete() > %w", err)
				}
				if !deleted {
					color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "No user term %q\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed term %s\n", args[0])
				return nil
			})
		},
	}
}

func newTermListCommand() *cobra.Command {
	var includeCanonical bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user-added terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				userTerms, err := c.UserTerms.FindAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("FindAll() > %w", err)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tENGLISH\tHANGUL\tSOURCE")
				if includeCanonical {
					for _, t := range c.Canonical.Snapshot().Terms {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.English, t.Hangul, t.Belt)
					}
				}
				for _, t := range userTerms {
					fmt.Fprintf(tw, "%s\t%s\t%s\tuser\n", t.ID, t.English, t.Hangul)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&includeCanonical, "canonical", false, "include canonical terms")
	return cmd
}
