// Package importer loads card files saved by the previous CardConjurer
// site into a set.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"cardconjurer/internal/card"
	"cardconjurer/internal/cardset"
	"cardconjurer/internal/cardtext"
)

var (
	// ErrInvalidRecord is returned for records that are not {"data": {...}}.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNoName is returned for records whose title has no text.
	ErrNoName = errors.New("card data has no name")
)

type SetReader interface {
	Get(ctx context.Context, id int64) (cardset.Set, error)
}

type CardCreator interface {
	Create(ctx context.Context, in card.Input) (card.Card, error)
}

// RecordError is a record that was skipped. Record is 1-based.
type RecordError struct {
	Source string `json:"source"`
	Record int    `json:"record"`
	Err    error  `json:"-"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s: record %d: %v", e.Source, e.Record, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

func (e RecordError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source  string `json:"source"`
		Record  int    `json:"record"`
		Message string `json:"message"`
	}{e.Source, e.Record, e.Err.Error()})
}

type Imported struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Report summarises an import.
type Report struct {
	Set      cardset.Set   `json:"set"`
	Imported []Imported    `json:"imported"`
	Errors   []RecordError `json:"errors"`
}

// Count is the number of cards created.
func (r *Report) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Imported)
}

type Service struct {
	sets  SetReader
	cards CardCreator
	log   *zap.Logger
}

func NewService(sets SetReader, cards CardCreator, log *zap.Logger) *Service {
	return &Service{sets: sets, cards: cards, log: log}
}

// ImportFiles imports every file into the set and returns one combined
// report.
func (s *Service) ImportFiles(ctx context.Context, setID int64, paths ...string) (*Report, error) {
	report, err := s.newReport(ctx, setID)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return report, fmt.Errorf("open %s: %w", path, err)
		}
		err = s.importInto(ctx, report, filepath.Base(path), f)
		f.Close()
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// Import reads one JSON document holding a record or a list of records.
func (s *Service) Import(ctx context.Context, setID int64, source string, r io.Reader) (*Report, error) {
	report, err := s.newReport(ctx, setID)
	if err != nil {
		return nil, err
	}
	return report, s.importInto(ctx, report, source, r)
}

func (s *Service) newReport(ctx context.Context, setID int64) (*Report, error) {
	set, err := s.sets.Get(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("set %d: %w", setID, err)
	}
	return &Report{Set: set, Imported: []Imported{}, Errors: []RecordError{}}, nil
}

func (s *Service) importInto(ctx context.Context, report *Report, source string, r io.Reader) error {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}
	records, ok := doc.([]any)
	if !ok {
		records = []any{doc}
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := s.importRecord(ctx, report.Set, rec)
		if err == nil {
			name := c.View().Name
			report.Imported = append(report.Imported, Imported{ID: c.ID, Name: name})
			s.log.Info("card imported", zap.String("source", source), zap.Int64("card_id", c.ID), zap.String("name", name))
			continue
		}
		if !errors.Is(err, ErrInvalidRecord) && !errors.Is(err, ErrNoName) && !card.IsClientError(err) {
			return fmt.Errorf("%s: record %d: %w", source, i+1, err)
		}
		recErr := RecordError{Source: source, Record: i + 1, Err: err}
		report.Errors = append(report.Errors, recErr)
		s.log.Warn("record skipped", zap.String("source", source), zap.Int("record", i+1), zap.Error(err))
	}
	return nil
}

func (s *Service) importRecord(ctx context.Context, set cardset.Set, rec any) (card.Card, error) {
	m, ok := rec.(map[string]any)
	if !ok {
		return card.Card{}, ErrInvalidRecord
	}
	data, ok := m["data"].(map[string]any)
	if !ok {
		return card.Card{}, ErrInvalidRecord
	}

	face := cardtext.Face(LocalizeURLs(data).(map[string]any))
	if cardtext.Name(face) == "" {
		return card.Card{}, ErrNoName
	}

	// infoNote was added to the editor later; older saves lack it.
	switch note := face["infoNote"]; note {
	case nil, "undefined", "null":
		face["infoNote"] = ""
	}
	face["infoSet"] = set.Code

	return s.cards.Create(ctx, card.Input{SetID: set.ID, Front: face})
}
