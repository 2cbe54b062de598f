package assets

import (
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

// StudySheet is the data passed to the study sheet template
type StudySheet struct {
	Title       string
	GeneratedAt time.Time
	Items       []vocabulary.Item
}

func WriteStudySheet(output io.Writer, templatePath string, sheet StudySheet) error {
	tmpl, err := ParseStudySheetTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseStudySheetTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, sheet); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
