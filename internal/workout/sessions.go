package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
)

// DateLayout is the calendar-day format sessions are keyed by. No time
// component, no timezone normalization beyond what the caller's clock gives.
const DateLayout = "2006-01-02"

// Ledger maintains the dated session records and derives history views over
// them. It consults the template store only to resolve exercise identity;
// session records themselves outlive template deletion.
type Ledger struct {
	kv        storage.KV
	templates *TemplateStore
	newID     func() string
	now       func() time.Time
}

// NewLedger creates a ledger over the given backend and template store.
func NewLedger(kv storage.KV, templates *TemplateStore) *Ledger {
	return &Ledger{
		kv:        kv,
		templates: templates,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// HistoryEntry is one dated history record for an exercise.
type HistoryEntry struct {
	Date string           `json:"date"`
	Data models.SeriesLog `json:"data"`
}

func (l *Ledger) load(ctx context.Context) ([]models.Session, error) {
	data, ok, err := l.kv.Get(ctx, storage.KeySessions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Session{}, nil
	}
	var sessions []models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("%w: parsing session ledger: %v", storage.ErrUnavailable, err)
	}
	return sessions, nil
}

func (l *Ledger) save(ctx context.Context, sessions []models.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encoding session ledger: %w", err)
	}
	return l.kv.Set(ctx, storage.KeySessions, data)
}

// GetOrCreate returns the session for the exact (templateID, date) pair,
// creating an empty one if none exists. Idempotent: at most one session per
// pair ever exists, and repeat calls return the stored record unchanged.
func (l *Ledger) GetOrCreate(ctx context.Context, templateID, date string) (*models.Session, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].TemplateID == templateID && sessions[i].Date == date {
			return &sessions[i], nil
		}
	}
	session := models.Session{
		ID:         l.newID(),
		TemplateID: templateID,
		Date:       date,
		Exercises:  map[string]models.SeriesLog{},
	}
	sessions = append(sessions, session)
	if err := l.save(ctx, sessions); err != nil {
		return nil, err
	}
	return &session, nil
}

// Today returns the session for the caller's current calendar day, creating
// it on first access.
func (l *Ledger) Today(ctx context.Context, templateID string) (*models.Session, error) {
	return l.GetOrCreate(ctx, templateID, l.today())
}

func (l *Ledger) today() string {
	return l.now().Format(DateLayout)
}

// ExerciseData returns the logged data for the exercise within the session,
// or an empty log when nothing has been written yet. Never an error for an
// unknown session or exercise.
func (l *Ledger) ExerciseData(ctx context.Context, sessionID, exerciseID string) (models.SeriesLog, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return models.SeriesLog{}, err
	}
	for _, s := range sessions {
		if s.ID != sessionID {
			continue
		}
		if data, ok := s.Exercises[exerciseID]; ok {
			if data.Series == nil {
				data.Series = []models.SeriesEntry{}
			}
			return data, nil
		}
	}
	return models.EmptySeriesLog(), nil
}

// SaveExerciseData overwrites the exercise's entry in the session wholesale.
// Returns false when the session ID does not resolve; the write is then a
// no-op, not an error.
func (l *Ledger) SaveExerciseData(ctx context.Context, sessionID, exerciseID string, data models.SeriesLog) (bool, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		if sessions[i].Exercises == nil {
			sessions[i].Exercises = map[string]models.SeriesLog{}
		}
		sessions[i].Exercises[exerciseID] = data
		if err := l.save(ctx, sessions); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ExerciseHistory returns the past attempts at an exercise within one
// template: every session for that template except today's, restricted to
// entries that logged at least one set, most recent first.
func (l *Ledger) ExerciseHistory(ctx context.Context, templateID, exerciseID string) ([]HistoryEntry, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	today := l.today()

	var history []HistoryEntry
	for _, s := range sessions {
		if s.TemplateID != templateID || s.Date == today {
			continue
		}
		data, ok := s.Exercises[exerciseID]
		if !ok || len(data.Series) == 0 {
			continue
		}
		history = append(history, HistoryEntry{Date: s.Date, Data: data})
	}
	// ISO dates compare correctly as strings.
	sort.Slice(history, func(i, j int) bool { return history[i].Date > history[j].Date })
	return history, nil
}

// GlobalExerciseHistory returns every logged occurrence of the exercise
// across all sessions and templates, for progression charts. The exercise ID
// must still resolve to a name in the catalog; once the exercise is deleted
// from every template, its history is no longer attributable and the result
// is empty. Matching itself is strictly by ID — two same-named exercises
// created in different templates are distinct entities. The result is
// unsorted; chart consumers sort ascending by date.
func (l *Ledger) GlobalExerciseHistory(ctx context.Context, exerciseID string) ([]HistoryEntry, error) {
	name, err := l.templates.ResolveExerciseName(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	sessions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	var history []HistoryEntry
	for _, s := range sessions {
		data, ok := s.Exercises[exerciseID]
		if !ok || len(data.Series) == 0 {
			continue
		}
		history = append(history, HistoryEntry{Date: s.Date, Data: data})
	}
	return history, nil
}

// SessionDates returns the date of every session ever created, for marking
// a calendar view.
func (l *Ledger) SessionDates(ctx context.Context) ([]string, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(sessions))
	for _, s := range sessions {
		dates = append(dates, s.Date)
	}
	return dates, nil
}

// TotalSessions returns the count of all sessions ever created.
func (l *Ledger) TotalSessions(ctx context.Context) (int, error) {
	sessions, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}
