// Package seed holds the static catalog data (characters, levels,
// achievements) and the idempotent loader that installs it.
package seed

import "github.com/kanaflash/kana-api/internal/domain"

// Characters returns the full kana catalog: the 46 basic hiragana followed by
// the 46 basic katakana, in gojūon order. IDs equal order indexes so the
// catalog is stable across reseeds.
func Characters() []domain.Character {
	rows := []struct {
		glyphs  string
		romaji  []string
		rowName string
	}{
		{"あいうえお", []string{"a", "i", "u", "e", "o"}, "あ行"},
		{"かきくけこ", []string{"ka", "ki", "ku", "ke", "ko"}, "か行"},
		{"さしすせそ", []string{"sa", "shi", "su", "se", "so"}, "さ行"},
		{"たちつてと", []string{"ta", "chi", "tsu", "te", "to"}, "た行"},
		{"なにぬねの", []string{"na", "ni", "nu", "ne", "no"}, "な行"},
		{"はひふへほ", []string{"ha", "hi", "fu", "he", "ho"}, "は行"},
		{"まみむめも", []string{"ma", "mi", "mu", "me", "mo"}, "ま行"},
		{"やゆよ", []string{"ya", "yu", "yo"}, "や行"},
		{"らりるれろ", []string{"ra", "ri", "ru", "re", "ro"}, "ら行"},
		{"わをん", []string{"wa", "wo", "n"}, "わ行"},
	}
	katakanaRows := []struct {
		glyphs  string
		romaji  []string
		rowName string
	}{
		{"アイウエオ", []string{"a", "i", "u", "e", "o"}, "ア行"},
		{"カキクケコ", []string{"ka", "ki", "ku", "ke", "ko"}, "カ行"},
		{"サシスセソ", []string{"sa", "shi", "su", "se", "so"}, "サ行"},
		{"タチツテト", []string{"ta", "chi", "tsu", "te", "to"}, "タ行"},
		{"ナニヌネノ", []string{"na", "ni", "nu", "ne", "no"}, "ナ行"},
		{"ハヒフヘホ", []string{"ha", "hi", "fu", "he", "ho"}, "ハ行"},
		{"マミムメモ", []string{"ma", "mi", "mu", "me", "mo"}, "マ行"},
		{"ヤユヨ", []string{"ya", "yu", "yo"}, "ヤ行"},
		{"ラリルレロ", []string{"ra", "ri", "ru", "re", "ro"}, "ラ行"},
		{"ワヲン", []string{"wa", "wo", "n"}, "ワ行"},
	}

	var characters []domain.Character
	order := 1

	appendRows := func(script domain.Script, set []struct {
		glyphs  string
		romaji  []string
		rowName string
	}) {
		for _, row := range set {
			i := 0
			for _, glyph := range row.glyphs {
				characters = append(characters, domain.Character{
					ID:         int64(order),
					Glyph:      string(glyph),
					Romaji:     row.romaji[i],
					Script:     script,
					RowName:    row.rowName,
					OrderIndex: order,
				})
				order++
				i++
			}
		}
	}

	appendRows(domain.ScriptHiragana, rows)
	appendRows(domain.ScriptKatakana, katakanaRows)

	return characters
}
