// Package trainer drives the flashcard review: a shuffled deck of every
// stored word, one card at a time, front (word) or back (translation).
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/example/myglish/pkg/models"
)

// ErrNoWords is returned when there is nothing to review
var ErrNoWords = errors.New("no words to review")

// State of the review session
type State int

const (
	Idle State = iota
	Reviewing
	Empty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reviewing:
		return "reviewing"
	case Empty:
		return "empty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Side of the current card
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// WordSource supplies the words that make up the deck
type WordSource interface {
	All(ctx context.Context) ([]*models.VocabularyWord, error)
}

// Trainer holds the deck, the position in it and which side is up
type Trainer struct {
	source WordSource
	rng    *rand.Rand

	state State
	deck  []*models.VocabularyWord
	index int
	side  Side
}

// New creates an idle trainer. rng decides every shuffle.
func New(source WordSource, rng *rand.Rand) *Trainer {
	return &Trainer{source: source, rng: rng}
}

// Start loads the deck; it is the same as Reshuffle
func (t *Trainer) Start(ctx context.Context) error {
	return t.Reshuffle(ctx)
}

// Reshuffle reloads every word, orphans included, puts them in a fresh random
// order and shows the front of the first card.
func (t *Trainer) Reshuffle(ctx context.Context) error {
	words, err := t.source.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	t.deck = Shuffle(words, t.rng)
	t.index = 0
	t.side = Front
	if len(t.deck) == 0 {
		t.state = Empty
		return nil
	}
	t.state = Reviewing
	return nil
}

// Flip turns the current card over
func (t *Trainer) Flip() error {
	if t.state != Reviewing {
		return ErrNoWords
	}
	if t.side == Front {
		t.side = Back
	} else {
		t.side = Front
	}
	return nil
}

// Advance shows the front of the next card. Going past the last card starts
// a new round with a fresh shuffle.
func (t *Trainer) Advance(ctx context.Context) error {
	if t.state != Reviewing {
		return ErrNoWords
	}
	t.side = Front
	if t.index+1 < len(t.deck) {
		t.index++
		return nil
	}
	return t.Reshuffle(ctx)
}

// Current returns the card being shown
func (t *Trainer) Current() (*models.VocabularyWord, bool) {
	if t.state != Reviewing {
		return nil, false
	}
	return t.deck[t.index], true
}

// Text returns what is written on the visible side of the current card
func (t *Trainer) Text() (string, bool) {
	w, ok := t.Current()
	if !ok {
		return "", false
	}
	if t.side == Back {
		return w.Translation, true
	}
	return w.Word, true
}

func (t *Trainer) State() State { return t.state }
func (t *Trainer) Index() int { return t.index }
func (t *Trainer) Side() Side { return t.side }

// Deck returns the current order of the cards
func (t *Trainer) Deck() []*models.VocabularyWord {
	out := make([]*models.VocabularyWord, len(t.deck))
	copy(out, t.deck)
	return out
}

// Shuffle returns a random permutation of words decided entirely by rng.
// The input slice is not modified.
func Shuffle(words []*models.VocabularyWord, rng *rand.Rand) []*models.VocabularyWord {
	out := make([]*models.VocabularyWord, len(words))
	copy(out, words)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
