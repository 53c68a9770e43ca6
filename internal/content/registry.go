package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"rakau/internal/models"
)

//go:embed data/whiti/*.json data/vocabulary/*.json
var contentFS embed.FS

// ErrNotFound is returned when a whiti id is unknown
var ErrNotFound = errors.New("whiti not found")

// Registry holds all authored content, loaded once at startup and read-only
// afterwards.
type Registry struct {
	whiti     []*models.Whiti
	byID      map[int]*models.Whiti
	vocab     []models.VocabularyItem
	vocabByID map[string]models.VocabularyItem
}

// Load parses and validates the embedded content files
func Load() (*Registry, error) {
	return LoadFS(contentFS)
}

// LoadFS parses and validates content from the given filesystem. The layout
// mirrors the embedded one: data/whiti/*.json plus
// data/vocabulary/core-vocab.json.
func LoadFS(fsys fs.FS) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, "data/whiti")
	if err != nil {
		return nil, fmt.Errorf("read whiti dir: %w", err)
	}

	r := &Registry{
		byID:      make(map[int]*models.Whiti),
		vocabByID: make(map[string]models.VocabularyItem),
	}

	var defects []Defect
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(fsys, "data/whiti/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var whiti models.Whiti
		if err := json.Unmarshal(data, &whiti); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		defects = append(defects, ValidateWhiti(&whiti, entry.Name())...)

		if _, exists := r.byID[whiti.ID]; exists {
			defects = append(defects, Defect{Path: entry.Name(), Message: fmt.Sprintf("duplicate whiti id %d", whiti.ID)})
			continue
		}
		w := whiti
		r.byID[w.ID] = &w
		r.whiti = append(r.whiti, &w)
	}

	sort.Slice(r.whiti, func(i, j int) bool {
		return r.whiti[i].ID < r.whiti[j].ID
	})

	// Prerequisites can only be checked once every whiti is loaded
	for _, w := range r.whiti {
		for _, prereq := range w.Prerequisites {
			if _, ok := r.byID[prereq]; !ok {
				defects = append(defects, Defect{
					Path:    w.Slug,
					Message: fmt.Sprintf("prerequisite whiti %d does not exist", prereq),
				})
			}
		}
	}

	vocabData, err := fs.ReadFile(fsys, "data/vocabulary/core-vocab.json")
	if err != nil {
		return nil, fmt.Errorf("read core vocabulary: %w", err)
	}
	if err := json.Unmarshal(vocabData, &r.vocab); err != nil {
		return nil, fmt.Errorf("parse core vocabulary: %w", err)
	}
	defects = append(defects, ValidateVocabulary(r.vocab)...)
	for _, item := range r.vocab {
		r.vocabByID[item.ID] = item
	}

	if len(defects) > 0 {
		return nil, &ValidationError{Defects: defects}
	}

	return r, nil
}

// Whiti returns the whiti with the given id
func (r *Registry) Whiti(id int) (*models.Whiti, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// AllWhiti returns every whiti ordered by id
func (r *Registry) AllWhiti() []*models.Whiti {
	out := make([]*models.Whiti, len(r.whiti))
	copy(out, r.whiti)
	return out
}

// PhaseWhiti returns the whiti of one phase, ordered by id
func (r *Registry) PhaseWhiti(phase int) []*models.Whiti {
	var out []*models.Whiti
	for _, w := range r.whiti {
		if w.Phase == phase {
			out = append(out, w)
		}
	}
	return out
}

// Vocabulary returns the core vocabulary list
func (r *Registry) Vocabulary() []models.VocabularyItem {
	out := make([]models.VocabularyItem, len(r.vocab))
	copy(out, r.vocab)
	return out
}

// VocabItem looks up a vocabulary item by id
func (r *Registry) VocabItem(id string) (models.VocabularyItem, bool) {
	item, ok := r.vocabByID[id]
	return item, ok
}

// RakauConfig finds a rod configuration within a whiti by config id
func (r *Registry) RakauConfig(whiti *models.Whiti, configID string) (*models.RakauConfiguration, bool) {
	for i := range whiti.Exercises {
		cfg := whiti.Exercises[i].RakauConfig
		if cfg != nil && cfg.ID == configID {
			return cfg, true
		}
	}
	return nil, false
}
