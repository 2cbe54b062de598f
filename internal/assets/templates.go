// Package assets renders the study sheet from an embedded or user-supplied template.
package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const studySheetTemplateName = "study-sheet.md.go.tmpl"

//go:embed templates/study-sheet.md.go.tmpl
var fallbackStudySheetTemplate string

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// cell makes text safe to place inside a Markdown table cell
func cell(text string) string {
	return strings.TrimSpace(cellReplacer.Replace(text))
}

func ParseStudySheetTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, studySheetTemplateName, fallbackStudySheetTemplate)
}

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"cell": cell,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
