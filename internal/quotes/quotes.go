package quotes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	log "github.com/sirupsen/logrus"
)

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// Motivational is the built-in set used whenever no quote can be found elsewhere.
var Motivational = []string{
	"The only bad workout is the one that didn't happen.",
	"Strength doesn't come from what you can do. It comes from overcoming the things you once thought you couldn't.",
	"Your body can stand almost anything. It's your mind that you have to convince.",
	"Discipline is doing it even when you don't feel like it.",
	"Small progress is still progress.",
}

// RandomMotivational picks one of the built-in quotes. intn must return a value in [0, n).
func RandomMotivational(intn func(n int) int) string {
	if intn == nil {
		intn = rand.IntN
	}
	return Motivational[intn(len(Motivational))]
}

type Manager struct {
	Quotes        []*Quote
	AuthorsQuotes map[string][]*Quote
	GenresQuotes  map[string][]*Quote

	intn func(n int) int
}

func newManager() *Manager {
	return &Manager{
		AuthorsQuotes: make(map[string][]*Quote),
		GenresQuotes:  make(map[string][]*Quote),
		intn:          rand.IntN,
	}
}

func (qm *Manager) add(q *Quote) {
	qm.Quotes = append(qm.Quotes, q)
	if q.Author != "" {
		qm.AuthorsQuotes[q.Author] = append(qm.AuthorsQuotes[q.Author], q)
	}
	if q.Genre != "" {
		qm.GenresQuotes[q.Genre] = append(qm.GenresQuotes[q.Genre], q)
	}
}

// NewManager always holds the built-in quotes, plus those read from quotesCsvReader when it is not nil.
func NewManager(quotesCsvReader *csv.Reader) (*Manager, error) {
	qm := newManager()
	for _, text := range Motivational {
		qm.add(&Quote{Text: text, Genre: "motivational"})
	}

	if quotesCsvReader == nil {
		return qm, nil
	}

	log.Println("reading quotes CSV ...")

	quotesCsvReader.Comma = ';'
	read := 0
	for {
		record, err := quotesCsvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			return nil, fmt.Errorf("record [%s] does not have 3 elements", record)
		}

		// QUOTE;AUTHOR;GENRE
		qm.add(&Quote{
			Text:   record[0],
			Author: record[1],
			Genre:  record[2],
		})
		read++
	}

	log.Printf("quotes CSV read %d quotes", read)

	return qm, nil
}

// NewManagerFromFile reads the CSV at path. An empty path gives the built-in quotes only.
func NewManagerFromFile(path string) (*Manager, error) {
	if path == "" {
		return NewManager(nil)
	}

	quotesCsvFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	return NewManager(csv.NewReader(quotesCsvFile))
}

func (qm *Manager) WithRand(intn func(n int) int) *Manager {
	qm.intn = intn
	return qm
}

func (qm *Manager) RandomQuote() *Quote {
	return qm.Quotes[qm.intn(len(qm.Quotes))]
}
