// Package counter provides text measurement in tokens, words, or characters.
// The crawler uses it to cap stored abstract length and the classify command
// reports input size with it.
package counter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Method selects the unit a Counter measures in.
type Method int

const (
	Tokens Method = iota
	Words
	Characters
)

// String returns the unit name for logging.
func (m Method) String() string {
	switch m {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// Counter measures text in a single unit.
type Counter interface {
	// Count returns the number of units in text.
	Count(text string) int

	// Name identifies the counting method for logging and debugging.
	Name() string
}

// New returns a Counter for the given method. The token counter may fail to
// initialize if its encoding cannot be loaded.
func New(method Method) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter()
	case Words:
		return wordCounter{}, nil
	case Characters:
		return charCounter{}, nil
	default:
		return nil, fmt.Errorf("unknown counting method: %d", method)
	}
}

// wordCounter counts whitespace-separated words.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func (wordCounter) Name() string { return "words" }

// charCounter counts runes, not bytes.
type charCounter struct{}

func (charCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

func (charCounter) Name() string { return "characters" }
