package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabquiz/internal/assets"
	"github.com/at-ishikawa/vocabquiz/internal/pdf"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/source"
)

func newExportCommand() *cobra.Command {
	var (
		outputPath  string
		title       string
		generatePDF bool
	)
	command := &cobra.Command{
		Use:   "export",
		Short: "Write a study sheet of every word as Markdown, optionally as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if generatePDF {
				if _, err := pdf.PathFor(outputPath); err != nil {
					return err
				}
			}

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

			if title == "" {
				title = cfg.Vocabulary.Collection
			}
			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(outputPath), err)
			}
			output, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", outputPath, err)
			}
			defer func() {
				_ = output.Close()
			}()

			if err := assets.WriteStudySheet(output, cfg.Export.Template, assets.StudySheet{
				Title:       title,
				GeneratedAt: time.Now(),
				Items:       items,
			}); err != nil {
				return fmt.Errorf("assets.WriteStudySheet() > %w", err)
			}
			if err := output.Close(); err != nil {
				return fmt.Errorf("output.Close() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s\n", len(items), outputPath)

			if generatePDF {
				pdfPath, err := pdf.ConvertMarkdownToPDF(outputPath)
				if err != nil {
					return fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "PDF generated: %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().StringVarP(&outputPath, "output", "o", "study-sheet.md", "Markdown output path")
	command.Flags().StringVar(&title, "title", "", "Sheet title. Defaults to the collection name")
	command.Flags().BoolVar(&generatePDF, "pdf", false, "Also convert the Markdown file to PDF")
	return command
}
