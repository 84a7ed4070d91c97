package email

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordSet holds the distinct lowercase words of one message
type WordSet = mapset.Set[string]

// NewWordSet returns an empty, single-goroutine word set
func NewWordSet(words ...string) WordSet {
	return mapset.NewThreadUnsafeSet[string](words...)
}

// Lines is an ordered source of corpus lines, such as a corpus.Stream
type Lines interface {
	Scan() bool
	Text() string
	Err() error
}

// Markers delimit messages in a flat corpus
type Markers struct {
	Start  string // begins a message; e.g. <SUBJECT>
	End    string // ends a message body; e.g. </BODY>
	Markup string // any other line containing it is skipped
}

// DefaultMarkers returns the markers of the standard corpus format
func DefaultMarkers() Markers {
	return Markers{
		Start:  "<SUBJECT>",
		End:    "</BODY>",
		Markup: "<",
	}
}

// Handler receives message boundaries from a Segmenter
type Handler interface {
	// StartMessage is called for every start marker line
	StartMessage() error
	// EndMessage is called for every end marker line with the words
	// accumulated since the last start marker
	EndMessage(words WordSet) error
}

// Segmenter splits a line stream into messages and extracts their words
type Segmenter struct {
	markers Markers
	lower   cases.Caser
}

// NewSegmenter creates a segmenter for the given markers
func NewSegmenter(markers Markers) *Segmenter {
	return &Segmenter{
		markers: markers,
		lower:   cases.Lower(language.Und),
	}
}

// Segment reads lines until the stream is exhausted, reporting message
// boundaries to h.
//
// Missing or extra markers are not errors: words before the first start
// marker belong to the first message, and an end marker without a new start
// marker re-emits the accumulated set.
func (s *Segmenter) Segment(ctx context.Context, lines Lines, h Handler) error {
	words := NewWordSet()

	for lines.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := lines.Text()

		switch {
		case strings.Contains(line, s.markers.Start):
			if err := h.StartMessage(); err != nil {
				return err
			}
			words = NewWordSet()
		case strings.Contains(line, s.markers.End):
			if err := h.EndMessage(words); err != nil {
				return err
			}
		case line == "" || strings.Contains(line, s.markers.Markup):
			// markup or blank
		default:
			for _, token := range s.Tokenize(line) {
				words.Add(token)
			}
		}
	}

	if err := lines.Err(); err != nil {
		return errors.Wrap(err, "segmenting corpus")
	}

	return nil
}

// Tokenize lowercases line and splits it on single spaces. Empty tokens
// between consecutive spaces are kept as words; trailing empty tokens are
// dropped.
func (s *Segmenter) Tokenize(line string) []string {
	tokens := strings.Split(s.lower.String(line), " ")
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
