// Package workout is the data layer of RepBook: the template catalog, the
// dated session ledger, and the history/progression queries derived from
// them. It persists through a storage.KV holding one JSON blob per store and
// rereads that blob on every operation — last full write wins.
package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
)

// TemplateStore manages the catalog of workout templates and the exercises
// nested inside them. Lookups report absence with a nil result; errors are
// reserved for the persistence backend failing.
type TemplateStore struct {
	kv    storage.KV
	newID func() string
	now   func() time.Time
}

// NewTemplateStore creates a store over the given backend.
func NewTemplateStore(kv storage.KV) *TemplateStore {
	return &TemplateStore{
		kv:    kv,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (s *TemplateStore) load(ctx context.Context) ([]models.Template, error) {
	data, ok, err := s.kv.Get(ctx, storage.KeyTemplates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Template{}, nil
	}
	var templates []models.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("%w: parsing template catalog: %v", storage.ErrUnavailable, err)
	}
	return templates, nil
}

func (s *TemplateStore) save(ctx context.Context, templates []models.Template) error {
	data, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("encoding template catalog: %w", err)
	}
	return s.kv.Set(ctx, storage.KeyTemplates, data)
}

// List returns every template in insertion order.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	return s.load(ctx)
}

// Create appends a new template with a fresh ID, an empty exercise list and
// the current timestamp. Name validation (non-empty) belongs to the caller;
// the store records whatever it is given.
func (s *TemplateStore) Create(ctx context.Context, name string) (*models.Template, error) {
	templates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tpl := models.Template{
		ID:        s.newID(),
		Name:      name,
		Exercises: []models.Exercise{},
		CreatedAt: s.now(),
	}
	templates = append(templates, tpl)
	if err := s.save(ctx, templates); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Get returns the template with the given ID, or nil if absent. Stale IDs
// are an expected input: sessions keep referencing deleted templates.
func (s *TemplateStore) Get(ctx context.Context, id string) (*models.Template, error) {
	templates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, nil
}

// Delete removes the template from the catalog. Historical sessions that
// reference it are left untouched. Deleting an unknown ID is a no-op.
func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	templates, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := templates[:0]
	for _, t := range templates {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.save(ctx, kept)
}

// AddExercise appends a new exercise to the template. Returns nil (no error)
// when the template ID does not resolve.
func (s *TemplateStore) AddExercise(ctx context.Context, templateID, name, muscleGroup string) (*models.Exercise, error) {
	templates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID != templateID {
			continue
		}
		ex := models.Exercise{
			ID:          s.newID(),
			Name:        name,
			MuscleGroup: muscleGroup,
		}
		templates[i].Exercises = append(templates[i].Exercises, ex)
		if err := s.save(ctx, templates); err != nil {
			return nil, err
		}
		return &ex, nil
	}
	return nil, nil
}

// DeleteExercise removes the exercise from the template's list. A no-op when
// either ID fails to resolve. Past sessions keep their logged entries for
// the removed exercise.
func (s *TemplateStore) DeleteExercise(ctx context.Context, templateID, exerciseID string) error {
	templates, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID != templateID {
			continue
		}
		kept := templates[i].Exercises[:0]
		for _, ex := range templates[i].Exercises {
			if ex.ID != exerciseID {
				kept = append(kept, ex)
			}
		}
		templates[i].Exercises = kept
		return s.save(ctx, templates)
	}
	return nil
}

// AllExercisesFlat returns one exercise per distinct (name, muscle group)
// pair across all templates, first occurrence winning. The dedup key is
// case-insensitive on the name. Order is enumeration order; consumers that
// need an alphabetical list sort it themselves.
func (s *TemplateStore) AllExercisesFlat(ctx context.Context) ([]models.Exercise, error) {
	templates, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var all []models.Exercise
	for _, t := range templates {
		for _, ex := range t.Exercises {
			key := strings.ToLower(ex.Name) + "|" + ex.MuscleGroup
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, ex)
		}
	}
	return all, nil
}

// ResolveExerciseName scans the catalog for the exercise ID and returns its
// current name, or "" when no template carries it anymore.
func (s *TemplateStore) ResolveExerciseName(ctx context.Context, exerciseID string) (string, error) {
	templates, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	for _, t := range templates {
		for _, ex := range t.Exercises {
			if ex.ID == exerciseID {
				return ex.Name, nil
			}
		}
	}
	return "", nil
}
