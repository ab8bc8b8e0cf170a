package domain

import "errors"

// Script identifies which Japanese syllabary a character belongs to.
type Script string

// Supported scripts.
const (
	ScriptHiragana Script = "hiragana"
	ScriptKatakana Script = "katakana"
)

// Common validation errors for Character.
var (
	ErrEmptyGlyph        = errors.New("character glyph cannot be empty")
	ErrEmptyRomaji       = errors.New("character romaji cannot be empty")
	ErrUnknownScript     = errors.New("character script must be hiragana or katakana")
	ErrInvalidOrderIndex = errors.New("character order index must be positive")
)

// Character is an immutable catalog entry: a single kana glyph with its
// romanization, script, phonetic row, and position within the catalog.
// The catalog is seeded once and never mutated at runtime.
type Character struct {
	ID         int64  `json:"id"`
	Glyph      string `json:"character"`
	Romaji     string `json:"romaji"`
	Script     Script `json:"script"`
	RowName    string `json:"group_name"` // Phonetic row label, e.g. あ行
	OrderIndex int    `json:"order_index"`
}

// Validate checks if the Character has valid data.
func (c *Character) Validate() error {
	if c.Glyph == "" {
		return ErrEmptyGlyph
	}

	if c.Romaji == "" {
		return ErrEmptyRomaji
	}

	if c.Script != ScriptHiragana && c.Script != ScriptKatakana {
		return ErrUnknownScript
	}

	if c.OrderIndex < 1 {
		return ErrInvalidOrderIndex
	}

	return nil
}

// ValidScript reports whether s names a known script. The empty string is
// accepted as "no filter" by the listing operations.
func ValidScript(s Script) bool {
	return s == "" || s == ScriptHiragana || s == ScriptKatakana
}
