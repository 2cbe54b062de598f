package vocabulary

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLoader reads items from a YAML file, or from every *.yml / *.yaml file under a directory.
type YAMLLoader struct {
	path string
}

func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{path: path}
}

func (loader *YAMLLoader) LoadAll(ctx context.Context) ([]Item, error) {
	info, err := os.Stat(loader.path)
	if err != nil {
		return nil, fmt.Errorf("os.Stat(%s) > %w", loader.path, err)
	}
	if !info.IsDir() {
		return readYAMLFile(loader.path)
	}

	var files []string
	if err := filepath.WalkDir(loader.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("filepath.WalkDir(%s) > %w", loader.path, err)
	}
	sort.Strings(files)

	var items []Item
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileItems, err := readYAMLFile(file)
		if err != nil {
			return nil, err
		}
		items = append(items, fileItems...)
	}
	return items, nil
}

func readYAMLFile(path string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var items []Item
	if err := yaml.NewDecoder(file).Decode(&items); err != nil {
		// An empty file decodes to io.EOF
		if info, statErr := file.Stat(); statErr == nil && info.Size() == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("yaml.Decode(%s) > %w", path, err)
	}
	return items, nil
}

// WriteYAMLFile writes items to path as a YAML list.
func WriteYAMLFile(path string, items []Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("yaml.Encode(%s) > %w", path, err)
	}
	return encoder.Close()
}
