package models

// RodColour names a rākau by its Māori colour word
type RodColour string

const (
	RodMa          RodColour = "ma"           // white, length 1
	RodWhero       RodColour = "whero"        // red, length 2
	RodKakariki    RodColour = "kakariki"     // light green, length 3
	RodWateri      RodColour = "wateri"       // purple, length 4
	RodKowhai      RodColour = "kowhai"       // yellow, length 5
	RodKakarikiNui RodColour = "kakariki-nui" // dark green, length 6
	RodMangu       RodColour = "mangu"        // black, length 7
	RodParauri     RodColour = "parauri"      // brown, length 8
	RodKahurangi   RodColour = "kahurangi"    // blue, length 9
	RodKaraka      RodColour = "karaka"       // orange, length 10
)

// RodData describes the canonical properties of a rod colour
type RodData struct {
	NameMaori string
	Length    int
	Hex       string
}

// Rods is the canonical rod table
var Rods = map[RodColour]RodData{
	RodMa:          {NameMaori: "Mā", Length: 1, Hex: "#FFFFFF"},
	RodWhero:       {NameMaori: "Whero", Length: 2, Hex: "#E63946"},
	RodKakariki:    {NameMaori: "Kākāriki", Length: 3, Hex: "#57CC99"},
	RodWateri:      {NameMaori: "Wāteri", Length: 4, Hex: "#9B5DE5"},
	RodKowhai:      {NameMaori: "Kōwhai", Length: 5, Hex: "#FFD166"},
	RodKakarikiNui: {NameMaori: "Kākāriki nui", Length: 6, Hex: "#2D6A4F"},
	RodMangu:       {NameMaori: "Mangu", Length: 7, Hex: "#212529"},
	RodParauri:     {NameMaori: "Parauri", Length: 8, Hex: "#8B5E3C"},
	RodKahurangi:   {NameMaori: "Kahurangi", Length: 9, Hex: "#118AB2"},
	RodKaraka:      {NameMaori: "Karaka", Length: 10, Hex: "#F77F00"},
}

// Position locates a rod on the mat in grid units
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rod is a single rod placed on the mat
type Rod struct {
	ID          string    `json:"id,omitempty"`
	Colour      RodColour `json:"colour"`
	Orientation string    `json:"orientation"` // "horizontal" or "vertical"
	Position    Position  `json:"position"`
	Label       string    `json:"label,omitempty"`
}

// MatSize is the mat dimensions in grid units
type MatSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RakauConfiguration is the rod arrangement shown with an exercise.
// Geometry only — it carries no decision logic.
type RakauConfiguration struct {
	ID                 string   `json:"id"`
	Rods               []Rod    `json:"rods"`
	MatSize            MatSize  `json:"matSize"`
	Description        string   `json:"description"`
	DescriptionEnglish string   `json:"descriptionEnglish,omitempty"`
	FocusRodIDs        []string `json:"focusRodIds,omitempty"`
}
