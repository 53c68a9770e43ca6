package models

// ExerciseType identifies the behaviour of an exercise
type ExerciseType string

const (
	ExerciseMultipleChoice  ExerciseType = "multiple_choice"
	ExerciseTypedInput      ExerciseType = "typed_input"
	ExerciseSentenceBuilder ExerciseType = "sentence_builder"
	ExercisePatternDrill    ExerciseType = "pattern_drill"
	ExerciseListenIdentify  ExerciseType = "listen_identify"
	ExerciseKarakia         ExerciseType = "karakia"
	ExerciseWaiata          ExerciseType = "waiata"
)

// AudioRef points to a recorded audio file
type AudioRef struct {
	File     string  `json:"file"`
	Duration float64 `json:"duration,omitempty"` // seconds
	Speaker  string  `json:"speaker,omitempty"`  // attribution for native speaker recordings
}

// KarakiaRef is the opening karakia for a whiti
type KarakiaRef struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Audio AudioRef `json:"audio"`
}

// WaiataRef is an optional closing waiata for a whiti
type WaiataRef struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Audio AudioRef `json:"audio"`
}

// TikangaNote carries cultural context for a whiti
type TikangaNote struct {
	Text        string `json:"text"`
	TextEnglish string `json:"textEnglish"`
}

// Exercise is a single immutable exercise within a whiti
type Exercise struct {
	ID               string              `json:"id"`
	Type             ExerciseType        `json:"type"`
	RakauConfig      *RakauConfiguration `json:"rakauConfig,omitempty"`
	Prompt           *AudioRef           `json:"prompt,omitempty"`
	CorrectAnswer    string              `json:"correctAnswer"`
	AcceptedVariants []string            `json:"acceptedVariants,omitempty"`
	AudioAnswer      *AudioRef           `json:"audioAnswer,omitempty"`
	Options          []string            `json:"options,omitempty"` // multiple_choice only
	Words            []string            `json:"words,omitempty"`   // sentence_builder only
	Hint             string              `json:"hint,omitempty"`
}

// Whiti is a lesson: an ordered collection of exercises plus metadata.
// Loaded read-only from the content registry and never mutated.
type Whiti struct {
	ID            int         `json:"id"`
	Slug          string      `json:"slug"`
	Title         string      `json:"title"`
	TitleEnglish  string      `json:"titleEnglish"`
	Phase         int         `json:"phase"`
	Theme         string      `json:"theme"`
	VocabularyIDs []string    `json:"vocabularyIds"`
	PatternIDs    []string    `json:"patternIds"`
	Karakia       *KarakiaRef `json:"karakia,omitempty"`
	Exercises     []Exercise  `json:"exercises"`
	Waiata        *WaiataRef  `json:"waiata,omitempty"`
	TikangaNote   *TikangaNote `json:"tikangaNote,omitempty"`
	Prerequisites []int       `json:"prerequisites"`
}
