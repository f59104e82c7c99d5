package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/2beens/repit/internal/quotes"
	"github.com/2beens/repit/internal/workouts"

	"github.com/google/uuid"
)

const (
	maxFallbackNameLen = 100
	catchAllName       = "Suggested workout"
)

var (
	quotedRe      = regexp.MustCompile(`["“]([^"”]+)["”]`)
	labelledRe    = regexp.MustCompile(`(?im)^\s*(?:quote|motivation)\s*:\s*(.+)$`)
	numberedRe    = regexp.MustCompile(`^\s*\d+\.\s*(.+?)(?:\s+[-–—]\s+(.+))?\s*$`)
	setsRepsRe    = regexp.MustCompile(`(?i)(\d+)\s*sets?\s*[x×]\s*(\d+)\s*reps?`)
	durationRe    = regexp.MustCompile(`(?i)(\d+)\s*(minutes|min|seconds|sec)`)
	fallbackSplit = regexp.MustCompile(`\n\s*\n|\. `)
)

// Parser turns free assistant text into exercises and a quote. It never fails.
type Parser struct {
	newID func() string
	intn  func(n int) int
}

// NewParser uses random uuids and a random default quote when newID or intn are nil.
func NewParser(newID func() string, intn func(n int) int) *Parser {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Parser{
		newID: newID,
		intn:  intn,
	}
}

func ParseWorkoutResponse(text string) workouts.Plan {
	return NewParser(nil, nil).Parse(text)
}

func (p *Parser) Parse(text string) workouts.Plan {
	exercises := p.numberedExercises(text)
	if len(exercises) == 0 {
		exercises = p.fallbackExercises(text)
	}
	if len(exercises) == 0 {
		exercises = []workouts.Exercise{{
			ID:    p.newID(),
			Name:  catchAllName,
			Notes: strings.TrimSpace(text),
		}}
	}

	return workouts.Plan{
		Exercises: exercises,
		Quote:     p.quote(text),
	}
}

func (p *Parser) quote(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return q
		}
	}
	if m := labelledRe.FindStringSubmatch(text); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return q
		}
	}
	return quotes.RandomMotivational(p.intn)
}

func (p *Parser) numberedExercises(text string) []workouts.Exercise {
	var exercises []workouts.Exercise
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := numberedRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(strings.Trim(m[1], "*"))
		details := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}

		e := workouts.Exercise{
			ID:    p.newID(),
			Name:  name,
			Notes: details,
		}
		if sr := setsRepsRe.FindStringSubmatch(details); sr != nil {
			e.Sets = sr[1]
			e.Reps = sr[2]
		}
		if d := durationRe.FindStringSubmatch(details); d != nil {
			e.Duration = d[1] + " " + d[2]
		}
		exercises = append(exercises, e)
	}
	return exercises
}

func (p *Parser) fallbackExercises(text string) []workouts.Exercise {
	var exercises []workouts.Exercise
	for _, part := range fallbackSplit.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "Quote") || strings.ContainsAny(part, `"“”`) {
			continue
		}
		exercises = append(exercises, workouts.Exercise{
			ID:   p.newID(),
			Name: truncate(part, maxFallbackNameLen),
		})
	}
	return exercises
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
