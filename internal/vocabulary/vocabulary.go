// Package vocabulary provides the quiz word model and loaders for the word list.
package vocabulary

import (
	"context"
)

//go:generate mockgen -source=vocabulary.go -destination=../mocks/vocabulary/mock_loader.go -package=mock_vocabulary

// Item is one quiz unit: a word, its canonical meaning and an example sentence.
type Item struct {
	Word    string `json:"word" yaml:"word" db:"word"`
	Meaning string `json:"meaning" yaml:"meaning" db:"meaning"`
	Example string `json:"example" yaml:"example" db:"example"`
}

// Loader fetches every item of a vocabulary collection.
type Loader interface {
	LoadAll(ctx context.Context) ([]Item, error)
}
