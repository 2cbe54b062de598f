package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/source"
)

func newWordsCommand() *cobra.Command {
	var savePath string
	command := &cobra.Command{
		Use:   "words",
		Short: "List the words of the configured collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			loader, closeFunc, err := source.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("source.Open() > %w", err)
			}
			defer func() {
				_ = closeFunc()
			}()

			items, err := loader.LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("loader.LoadAll() > %w", err)
			}

			if savePath != "" {
				if err := vocabulary.WriteYAMLFile(savePath, items); err != nil {
					return fmt.Errorf("vocabulary.WriteYAMLFile() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d words to %s\n", len(items), savePath)
				return nil
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(writer, "WORD\tMEANING\tEXAMPLE")
			for _, item := range items {
				_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\n", item.Word, item.Meaning, item.Example)
			}
			return writer.Flush()
		},
	}
	command.Flags().StringVar(&savePath, "save", "", "Save the words to a YAML file instead of printing them")
	return command
}
