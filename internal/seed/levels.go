package seed

import "github.com/kanaflash/kana-api/internal/domain"

// Levels returns the 50-level experience table. Thresholds are cumulative
// totals: 0, 100, 250, 500, 850, ... up to 120100 at level 50.
func Levels() []domain.Level {
	titles := []string{
		"Beginner", "Learner", "Rookie", "Trainee", "Student",
		"Diligent Student", "Hard Worker", "Enthusiast", "Devotee", "Master Candidate",
		"Adept", "Proficient", "Specialist", "Instructor", "Master",
		"Notable", "Mentor", "Honored Teacher", "Grandmaster", "Sage",
		"Deity of Letters", "Sovereign of Language", "Emperor of Japanese", "Monarch of Script", "Supreme Learner",
		"Hiragana Expert", "Katakana Expert", "Perfectionist", "Legendary Learner", "Immortal Master",
		"Mythical Being", "Transcendent", "Boundless Knowledge", "Eternal Student", "Dimension Walker",
		"Cosmic Sage", "Omniscient", "Creator", "Architect of Language", "Ultimate Being",
		"Invincible Master", "Flawless One", "Absolute Being", "Transcendent Being", "Supreme Being",
		"God of Hiragana", "God of Katakana", "Lord of Letters", "Lord of Language", "God of Japanese",
	}

	levels := make([]domain.Level, 0, len(titles))
	exp := 0
	for i, title := range titles {
		level := i + 1
		levels = append(levels, domain.Level{
			Level:       level,
			ExpRequired: exp,
			Title:       title,
		})
		// Gap to the next level: 100 after level 1, then 150, 250, 350, ...
		if level == 1 {
			exp += 100
		} else {
			exp += 100*level - 50
		}
	}

	return levels
}
