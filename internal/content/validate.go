package content

import (
	"fmt"
	"strings"

	"rakau/internal/models"
)

// Defect describes one content-authoring problem. Malformed content is an
// authoring error caught here at load time, never handled defensively during
// a lesson.
type Defect struct {
	Path    string
	Message string
}

func (d Defect) String() string {
	return d.Path + ": " + d.Message
}

// ValidationError aggregates every defect found in a content pass
type ValidationError struct {
	Defects []Defect
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		lines[i] = d.String()
	}
	return fmt.Sprintf("%d content defect(s):\n%s", len(e.Defects), strings.Join(lines, "\n"))
}

var validExerciseTypes = map[models.ExerciseType]bool{
	models.ExerciseMultipleChoice:  true,
	models.ExerciseTypedInput:      true,
	models.ExerciseSentenceBuilder: true,
	models.ExercisePatternDrill:    true,
	models.ExerciseListenIdentify:  true,
	models.ExerciseKarakia:         true,
	models.ExerciseWaiata:          true,
}

var validThemes = map[string]bool{
	"nga-tae": true, "rahi-iti": true, "waahi": true, "mahi": true,
	"tangata": true, "nama": true, "patai": true, "tikanga": true,
	"waiata": true,
}

var validPartsOfSpeech = map[string]bool{
	"noun": true, "verb": true, "adjective": true, "particle": true, "phrase": true,
}

// ValidateWhiti checks a whiti and its exercises against the authoring rules
func ValidateWhiti(w *models.Whiti, path string) []Defect {
	var defects []Defect
	add := func(format string, args ...interface{}) {
		defects = append(defects, Defect{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if w.ID <= 0 {
		add("id must be a positive integer")
	}
	if strings.TrimSpace(w.Slug) == "" {
		add("slug must be a non-empty string")
	}
	if strings.TrimSpace(w.Title) == "" {
		add("title must be a non-empty string")
	}
	if w.Phase < 1 || w.Phase > 4 {
		add("phase must be 1, 2, 3, or 4 (got %d)", w.Phase)
	}
	if !validThemes[w.Theme] {
		add("unknown theme %q", w.Theme)
	}
	if len(w.Exercises) == 0 {
		add("exercises must not be empty")
	}

	// Missing macrons in titles is the most common authoring slip
	if strings.Contains(w.Title, "Nga ") || strings.Contains(w.Title, "nga ") {
		add("title may be missing macrons — expected %q not %q", "Ngā", "Nga")
	}

	seen := make(map[string]bool)
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		exPath := fmt.Sprintf("%s.exercises[%d]", path, i)
		defects = append(defects, validateExercise(ex, exPath)...)
		if ex.ID != "" && seen[ex.ID] {
			defects = append(defects, Defect{Path: exPath, Message: fmt.Sprintf("duplicate exercise id %q", ex.ID)})
		}
		seen[ex.ID] = true
	}

	return defects
}

func validateExercise(ex *models.Exercise, path string) []Defect {
	var defects []Defect
	add := func(format string, args ...interface{}) {
		defects = append(defects, Defect{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(ex.ID) == "" {
		add("id must be a non-empty string")
	}
	if !validExerciseTypes[ex.Type] {
		add("unknown exercise type %q", ex.Type)
	}
	if strings.TrimSpace(ex.CorrectAnswer) == "" {
		add("correctAnswer must be a non-empty string")
	}

	switch ex.Type {
	case models.ExerciseMultipleChoice:
		if len(ex.Options) < 2 {
			add("multiple_choice exercise must have at least 2 options")
		}
	case models.ExerciseSentenceBuilder:
		if len(ex.Words) == 0 {
			add("sentence_builder exercise must have a word pool")
		}
	}

	if ex.RakauConfig != nil {
		defects = append(defects, validateRakauConfig(ex.RakauConfig, path+".rakauConfig")...)
	}

	return defects
}

func validateRakauConfig(cfg *models.RakauConfiguration, path string) []Defect {
	var defects []Defect
	add := func(p, format string, args ...interface{}) {
		defects = append(defects, Defect{Path: p, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.ID) == "" {
		add(path, "id must be a non-empty string")
	}
	if strings.TrimSpace(cfg.Description) == "" {
		add(path, "description must be a non-empty string")
	}
	if cfg.MatSize.Width <= 0 || cfg.MatSize.Height <= 0 {
		add(path, "matSize must have positive width and height")
	}

	for i, rod := range cfg.Rods {
		rodPath := fmt.Sprintf("%s.rods[%d]", path, i)
		if _, ok := models.Rods[rod.Colour]; !ok {
			add(rodPath, "unknown rod colour %q", rod.Colour)
		}
		if rod.Orientation != "horizontal" && rod.Orientation != "vertical" {
			add(rodPath, "orientation must be horizontal or vertical (got %q)", rod.Orientation)
		}
	}

	return defects
}

// ValidateVocabulary checks the core vocabulary list
func ValidateVocabulary(items []models.VocabularyItem) []Defect {
	var defects []Defect
	seen := make(map[string]bool)

	for i, item := range items {
		path := fmt.Sprintf("core-vocab[%d]", i)
		add := func(format string, args ...interface{}) {
			defects = append(defects, Defect{Path: path, Message: fmt.Sprintf(format, args...)})
		}

		if strings.TrimSpace(item.ID) == "" {
			add("id must be a non-empty string")
		}
		if strings.TrimSpace(item.Word) == "" {
			add("word must be a non-empty string")
		}
		if strings.TrimSpace(item.English) == "" {
			add("english must be a non-empty string")
		}
		if !validPartsOfSpeech[item.PartOfSpeech] {
			add("unknown part of speech %q", item.PartOfSpeech)
		}
		if item.RodColour != "" {
			if _, ok := models.Rods[item.RodColour]; !ok {
				add("unknown rod colour %q", item.RodColour)
			}
		}
		if item.ID != "" && seen[item.ID] {
			add("duplicate vocabulary id %q", item.ID)
		}
		seen[item.ID] = true
	}

	return defects
}
