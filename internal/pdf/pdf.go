// Package pdf renders Markdown study sheets as PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// PathFor returns the PDF path next to a Markdown file
func PathFor(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}
	return strings.TrimSuffix(markdownPath, ".md") + ".pdf", nil
}

// Render writes markdown to pdfPath as an A4 portrait document and returns its absolute path
func Render(markdown []byte, pdfPath string) (string, error) {
	if dir := filepath.Dir(pdfPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// ConvertMarkdownToPDF converts a .md file into a .pdf file in the same directory
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	pdfPath, err := PathFor(markdownPath)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}
	return Render(content, pdfPath)
}
