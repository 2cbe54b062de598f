package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/testutil"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestOrderFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    OrderFlag
		wantErr bool
	}{
		{value: "random", want: OrderFlag(quiz.OrderRandom)},
		{value: "shuffle", want: OrderFlag(quiz.OrderShuffle)},
		{value: "", wantErr: true},
		{value: "sorted", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var flag OrderFlag
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, flag)
			assert.Equal(t, tt.value, flag.String())
			assert.Equal(t, "OrderFlag", flag.Type())
		})
	}
}

// setupWorkspace writes the default word list and a config file into a temp dir used as the working directory
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return testutil.SetupTestConfig(t, dir)
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	command := newRootCommand()
	var stdout bytes.Buffer
	command.SetOut(&stdout)
	command.SetErr(&stdout)
	command.SetArgs(args)
	err := command.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestWordsCommand(t *testing.T) {
	configPath := setupWorkspace(t)

	t.Run("prints the words", func(t *testing.T) {
		got, err := executeCommand(t, "--config", configPath, "words")
		require.NoError(t, err)
		assert.Contains(t, got, "WORD")
		assert.Contains(t, got, "apple")
		assert.Contains(t, got, "計画")
	})

	t.Run("saves the words", func(t *testing.T) {
		savePath := filepath.Join(t.TempDir(), "saved", "words.yml")
		got, err := executeCommand(t, "--config", configPath, "words", "--save", savePath)
		require.NoError(t, err)
		assert.Contains(t, got, "Saved 2 words")

		saved, err := vocabulary.NewYAMLLoader(savePath).LoadAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, saved, 2)
	})
}

func TestExportCommand(t *testing.T) {
	configPath := setupWorkspace(t)
	outputPath := filepath.Join(t.TempDir(), "sheet.md")

	got, err := executeCommand(t, "--config", configPath, "export", "--output", outputPath, "--title", "Junior")
	require.NoError(t, err)
	assert.Contains(t, got, "Wrote 2 words")

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Junior")
	assert.Contains(t, string(content), "| apple | りんご | I ate an apple. |")
}

func TestExportCommand_PDFRequiresMarkdownPath(t *testing.T) {
	configPath := setupWorkspace(t)
	_, err := executeCommand(t, "--config", configPath, "export", "--output", "sheet.txt", "--pdf")
	assert.Error(t, err)
}

func TestQuizCommand_RequiresAPIKey(t *testing.T) {
	configPath := setupWorkspace(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := executeCommand(t, "--config", configPath, "quiz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestQuizCommand_RejectsUnknownOrder(t *testing.T) {
	configPath := setupWorkspace(t)
	_, err := executeCommand(t, "--config", configPath, "quiz", "--order", "sorted")
	assert.Error(t, err)
}
