package models

// VocabularyItem is a single entry in the core vocabulary list
type VocabularyItem struct {
	ID                    string    `json:"id"`
	Word                  string    `json:"word"`
	English               string    `json:"english"`
	PartOfSpeech          string    `json:"partOfSpeech"`
	Audio                 *AudioRef `json:"audio,omitempty"`
	LessonFirstAppearance int       `json:"lessonFirstAppearance"`
	RodColour             RodColour `json:"rodColour,omitempty"`
	ExampleUsage          string    `json:"exampleUsage,omitempty"`
}
