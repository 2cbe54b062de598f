// Package testutil provides shared test helpers for creating config files and word list fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

// DefaultItems are the words written by SetupTestConfig
var DefaultItems = []vocabulary.Item{
	{Word: "apple", Meaning: "りんご", Example: "I ate an apple."},
	{Word: "plan", Meaning: "計画", Example: "We made a plan."},
}

// SetupTestConfig writes a YAML word list and a config file that reads it.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, items ...vocabulary.Item) string {
	t.Helper()

	if len(items) == 0 {
		items = DefaultItems
	}
	wordsPath := filepath.Join(tmpDir, "words", "junior_vocab.yml")
	require.NoError(t, vocabulary.WriteYAMLFile(wordsPath, items))

	configContent := fmt.Sprintf(`vocabulary:
  source: yaml
  collection: junior_vocab
  yaml:
    path: %s
`, filepath.Dir(wordsPath))

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key pointed at baseURL
// for tests that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("openai:\n  api_key: fake-key-for-testing\n  base_url: %s\n", baseURL))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}
