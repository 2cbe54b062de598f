// Package textmask hides the answer in generated hint text.
package textmask

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

const (
	wordMask    = "___"
	meaningMask = "＿"
)

// contentPOS lists the IPA parts of speech that carry meaning
var contentPOS = map[string]bool{
	"名詞":  true,
	"動詞":  true,
	"形容詞": true,
	"副詞":  true,
}

type Masker struct {
	tokenizer *tokenizer.Tokenizer
}

func New() (*Masker, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("tokenizer.New() > %w", err)
	}
	return &Masker{tokenizer: t}, nil
}

// MaskWord replaces the English word and its regular inflections (apples, planned, studied) with a blank.
// A single-letter word is only masked as a whole word.
func (masker *Masker) MaskWord(text string, word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return text
	}
	pattern := regexp.MustCompile(`(?i)\b(?:` + strings.Join(inflections(strings.ToLower(word)), "|") + `)\b`)
	return pattern.ReplaceAllString(text, wordMask)
}

// inflections returns the patterns matching word and its regular English inflections
func inflections(word string) []string {
	quoted := regexp.QuoteMeta(word)
	if utf8.RuneCountInString(word) < 2 {
		return []string{quoted}
	}
	patterns := []string{quoted + `(?:s|es|ed|d|ing|er|est|ly)?`}

	last := word[len(word)-1]
	stem := regexp.QuoteMeta(word[:len(word)-1])
	switch {
	case last == 'e':
		patterns = append(patterns, stem+`ing`)
	case last == 'y' && len(word) > 2:
		patterns = append(patterns, stem+`i(?:es|ed|er|est|ly)`)
	case len(word) > 2 && isConsonant(last):
		patterns = append(patterns, quoted+regexp.QuoteMeta(string(last))+`(?:ed|ing|er|est)`)
	}
	return patterns
}

func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !strings.ContainsRune("aeiou", rune(b))
}

// MaskMeaning blanks out every token of text whose surface or dictionary form
// matches a content word of meaning
func (masker *Masker) MaskMeaning(text string, meaning string) string {
	meaning = strings.TrimSpace(meaning)
	if meaning == "" {
		return text
	}
	text = strings.ReplaceAll(text, meaning, blank(meaning))

	targets := masker.contentForms(meaning)
	if len(targets) == 0 {
		return text
	}

	var builder strings.Builder
	for _, token := range masker.tokenizer.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface, base := forms(token)
		if targets[surface] || targets[base] {
			builder.WriteString(blank(token.Surface))
			continue
		}
		builder.WriteString(token.Surface)
	}
	return builder.String()
}

func (masker *Masker) contentForms(meaning string) map[string]bool {
	targets := make(map[string]bool)
	for _, token := range masker.tokenizer.Tokenize(meaning) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		features := token.Features()
		if len(features) == 0 || !contentPOS[features[0]] {
			continue
		}
		if len(features) > 1 && features[1] == "非自立" {
			continue
		}
		surface, base := forms(token)
		targets[surface] = true
		targets[base] = true
	}
	return targets
}

func forms(token tokenizer.Token) (string, string) {
	base := token.Surface
	features := token.Features()
	if len(features) > 6 && features[6] != "*" {
		base = features[6]
	}
	return token.Surface, base
}

func blank(s string) string {
	return strings.Repeat(meaningMask, utf8.RuneCountInString(s))
}
