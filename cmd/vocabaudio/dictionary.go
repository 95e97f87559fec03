package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wuta/vocabaudio/internal/bootstrap"
	"github.com/wuta/vocabaudio/internal/datasync"
	"github.com/wuta/vocabaudio/internal/dictionary"
)

func newDictionaryCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the custom English to Korean dictionary",
	}
	rootCommand.AddCommand(
		newDictionaryAddCommand(),
		newDictionaryRemoveCommand(),
		newDictionaryListCommand(),
		newDictionaryLookupCommand(),
		newDictionaryImportCommand(),
		newDictionaryExportCommand(),
	)
	return rootCommand
}

func newDictionaryAddCommand() *cobra.Command {
	var entry dictionary.DictionaryEntry
	cmd := &cobra.Command{
		Use:   "add <english> <hangul>",
		Short: "Add or replace an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.English, entry.Hangul = args[0], args[1]
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				saved, err := c.Dictionary.Upsert(cmd.Context(), entry)
				if err != nil {
					return fmt.Errorf("Upsert() > %w", err)
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %q -> %s\n", saved.English, saved.Hangul)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&entry.Romanization, "romanization", "", "romanized pronunciation")
	cmd.Flags().StringVar(&entry.Category, "category", "", "category")
	return cmd
}

func newDictionaryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <english>",
		Short: "Remove an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				deleted, err := c.Dictionary.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("Delete() > %w", err)
				}
				if !deleted {
					color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "No entry for %q\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
				return nil
			})
		},
	}
}

func newDictionaryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				entries, err := c.Dictionary.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("List() > %w", err)
				}
				printEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
}

func newDictionaryLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <english>",
		Short: "Show the Korean text the translation chain picks for an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				resolution := c.Chain.HangulFor(cmd.Context(), args[0])
				out := cmd.OutOrStdout()
				if !resolution.Found() {
					color.New(color.FgYellow).Fprintf(out, "No Korean text found for %q\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "%s\t%s\n", resolution.Text, color.CyanString("(%s)", resolution.Source))
				return nil
			})
		},
	}
}

func newDictionaryImportCommand() *cobra.Command {
	var opts datasync.ImportOptions
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			entries, err := datasync.ReadDictionaryFile(f)
			if err != nil {
				return fmt.Errorf("datasync.ReadDictionaryFile(%s) > %w", args[0], err)
			}

			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				out := cmd.OutOrStdout()
				result, err := datasync.NewImporter(c.Dictionary, out).ImportDictionary(cmd.Context(), entries, opts)
				if err != nil {
					return fmt.Errorf("ImportDictionary() > %w", err)
				}

				fmt.Fprintln(out, "\nImport Summary:")
				if opts.DryRun {
					fmt.Fprintln(out, "  (dry-run mode, no changes made)")
				}
				fmt.Fprintf(out, "  Dictionary:  %d new, %d skipped, %d updated, %d invalid\n",
					result.DictionaryNew, result.DictionarySkipped, result.DictionaryUpdated, result.DictionaryInvalid)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&opts.UpdateExisting, "update-existing", false, "overwrite entries that already exist")
	return cmd
}

func newDictionaryExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export every entry as YAML to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				w := cmd.OutOrStdout()
				if len(args) == 1 {
					f, err := os.Create(args[0])
					if err != nil {
						return fmt.Errorf("os.Create(%s) > %w", args[0], err)
					}
					defer func() { _ = f.Close() }()
					w = f
				}
				n, err := datasync.NewExporter(c.Dictionary).Export(cmd.Context(), w)
				if err != nil {
					return fmt.Errorf("Export() > %w", err)
				}
				if len(args) == 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, args[0])
				}
				return nil
			})
		},
	}
}

func printEntries(w io.Writer, entries []dictionary.DictionaryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENGLISH\tHANGUL\tROMANIZATION\tCATEGORY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.English, e.Hangul, e.Romanization, e.Category)
	}
	_ = tw.Flush()
}
