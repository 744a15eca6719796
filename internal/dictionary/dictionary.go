// Package dictionary aggregates every stored word into day groups keyed by
// the date of the lesson that taught it.
package dictionary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/myglish/internal/textmatch"
	"github.com/example/myglish/pkg/models"
	"github.com/google/uuid"
)

// State tells the view which of its three screens to show
type State int

const (
	HasResults State = iota
	EmptyDictionary
	NoMatches
)

func (s State) String() string {
	switch s {
	case HasResults:
		return "results"
	case EmptyDictionary:
		return "empty dictionary"
	case NoMatches:
		return "no matches"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Group is the set of words taught on one calendar day
type Group struct {
	Day   time.Time
	Words []*models.VocabularyWord
}

// Result is a grouped and filtered dictionary
type Result struct {
	Query  string
	Groups []Group
	State  State
}

// Len returns the number of words across all groups
func (r *Result) Len() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Words)
	}
	return n
}

// Build groups words by the day of their lesson. Orphans are left out; a
// non-empty query keeps words whose spelling or translation contains it.
// Groups run from the most recent day back; words inside a group are sorted.
func Build(lessons []*models.Lesson, words []*models.VocabularyWord, query string) *Result {
	days := make(map[uuid.UUID]time.Time, len(lessons))
	for _, l := range lessons {
		days[l.ID] = l.Day()
	}

	needle := textmatch.Normalize(query)
	res := &Result{Query: query, Groups: []Group{}}
	groupable := 0
	byDay := map[time.Time][]*models.VocabularyWord{}
	for _, w := range words {
		if w.IsOrphan() {
			continue
		}
		d, ok := days[w.LessonID.UUID]
		if !ok {
			continue
		}
		groupable++
		if !textmatch.AnyContains(needle, w.Word, w.Translation) {
			continue
		}
		byDay[d] = append(byDay[d], w)
	}

	for d, ws := range byDay {
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Word < ws[j].Word })
		res.Groups = append(res.Groups, Group{Day: d, Words: ws})
	}
	sort.Slice(res.Groups, func(i, j int) bool {
		return res.Groups[i].Day.After(res.Groups[j].Day)
	})

	switch {
	case groupable == 0:
		res.State = EmptyDictionary
	case len(res.Groups) == 0:
		res.State = NoMatches
	default:
		res.State = HasResults
	}
	return res
}

type lessonLister interface {
	List(ctx context.Context) ([]*models.Lesson, error)
}

type wordLister interface {
	All(ctx context.Context) ([]*models.VocabularyWord, error)
}

// Service re-reads the store on every call so the view always reflects the
// latest saves.
type Service struct {
	lessons lessonLister
	words   wordLister
}

// NewService creates a dictionary service
func NewService(lessons lessonLister, words wordLister) *Service {
	return &Service{lessons: lessons, words: words}
}

// Lookup builds the dictionary for query from the current store contents
func (s *Service) Lookup(ctx context.Context, query string) (*Result, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	words, err := s.words.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	return Build(lessons, words, query), nil
}
