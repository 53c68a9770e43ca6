package lesson

import "strings"

// Normalize reduces text for comparison: lowercase, trimmed, internal
// whitespace runs collapsed to single spaces.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// StripMacrons replaces each macronised vowel with its unmarked equivalent,
// preserving case: ā→a, Ā→A, ē→e, Ē→E, ī→i, Ī→I, ō→o, Ō→O, ū→u, Ū→U.
// All other runes pass through unchanged.
func StripMacrons(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ā':
			return 'a'
		case 'Ā':
			return 'A'
		case 'ē':
			return 'e'
		case 'Ē':
			return 'E'
		case 'ī':
			return 'i'
		case 'Ī':
			return 'I'
		case 'ō':
			return 'o'
		case 'Ō':
			return 'O'
		case 'ū':
			return 'u'
		case 'Ū':
			return 'U'
		}
		return r
	}, text)
}
