package seed

import "github.com/kanaflash/kana-api/internal/domain"

// Achievements returns the achievement catalog. IDs are assigned by position
// so the catalog is stable across reseeds. Speed, perfect-quiz, and
// review-session achievements are defined but their condition types are
// placeholders until session tracking lands.
func Achievements() []domain.Achievement {
	defs := []domain.Achievement{
		// Characters learned
		{Name: "First Step", Description: "Learn your first character", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 1, ExpReward: 10, Icon: "🎯"},
		{Name: "Getting Started", Description: "Learn 5 characters", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 5, ExpReward: 25, Icon: "📚"},
		{Name: "Steady Progress", Description: "Learn 10 characters", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 10, ExpReward: 50, Icon: "🌱"},
		{Name: "Growing Strong", Description: "Learn 25 characters", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 25, ExpReward: 100, Icon: "🌿"},
		{Name: "Halfway There", Description: "Learn 50 characters", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 50, ExpReward: 200, Icon: "🌳"},

		// Hiragana mastery
		{Name: "Hiragana Initiate", Description: "Master 5 hiragana", ConditionType: domain.ConditionHiraganaMastered, ConditionValue: 5, ExpReward: 75, Icon: "🌸"},
		{Name: "Hiragana Basics", Description: "Master 15 hiragana", ConditionType: domain.ConditionHiraganaMastered, ConditionValue: 15, ExpReward: 150, Icon: "🌺"},
		{Name: "Hiragana Advanced", Description: "Master 30 hiragana", ConditionType: domain.ConditionHiraganaMastered, ConditionValue: 30, ExpReward: 300, Icon: "🎋"},
		{Name: "Hiragana Mastery", Description: "Master all 46 hiragana", ConditionType: domain.ConditionHiraganaMastered, ConditionValue: 46, ExpReward: 500, Icon: "👑"},

		// Katakana mastery
		{Name: "Katakana Initiate", Description: "Master 5 katakana", ConditionType: domain.ConditionKatakanaMastered, ConditionValue: 5, ExpReward: 75, Icon: "⚡"},
		{Name: "Katakana Basics", Description: "Master 15 katakana", ConditionType: domain.ConditionKatakanaMastered, ConditionValue: 15, ExpReward: 150, Icon: "🔥"},
		{Name: "Katakana Advanced", Description: "Master 30 katakana", ConditionType: domain.ConditionKatakanaMastered, ConditionValue: 30, ExpReward: 300, Icon: "⭐"},
		{Name: "Katakana Mastery", Description: "Master all 46 katakana", ConditionType: domain.ConditionKatakanaMastered, ConditionValue: 46, ExpReward: 500, Icon: "💫"},

		// Streaks
		{Name: "Persistence Pays", Description: "Study 3 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 3, ExpReward: 50, Icon: "📅"},
		{Name: "Habit Forming", Description: "Study 7 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 7, ExpReward: 100, Icon: "🔥"},
		{Name: "Solid Routine", Description: "Study 14 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 14, ExpReward: 200, Icon: "💪"},
		{Name: "Monthly Champion", Description: "Study 30 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 30, ExpReward: 500, Icon: "🏆"},
		{Name: "Unbreakable Spirit", Description: "Study 50 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 50, ExpReward: 750, Icon: "⚡"},
		{Name: "Hundred Day Glory", Description: "Study 100 days in a row", ConditionType: domain.ConditionStreak, ConditionValue: 100, ExpReward: 1000, Icon: "🌟"},

		// Total correct answers
		{Name: "Sharpening Up", Description: "Answer correctly 100 times", ConditionType: domain.ConditionTotalCorrect, ConditionValue: 100, ExpReward: 100, Icon: "✅"},
		{Name: "Knowledge Builder", Description: "Answer correctly 500 times", ConditionType: domain.ConditionTotalCorrect, ConditionValue: 500, ExpReward: 250, Icon: "📖"},
		{Name: "Certified Proficient", Description: "Answer correctly 1000 times", ConditionType: domain.ConditionTotalCorrect, ConditionValue: 1000, ExpReward: 500, Icon: "🎓"},
		{Name: "Seasoned Expert", Description: "Answer correctly 2000 times", ConditionType: domain.ConditionTotalCorrect, ConditionValue: 2000, ExpReward: 750, Icon: "🏅"},
		{Name: "Master Class", Description: "Answer correctly 5000 times", ConditionType: domain.ConditionTotalCorrect, ConditionValue: 5000, ExpReward: 1000, Icon: "👑"},

		// Quiz speed (placeholder conditions)
		{Name: "Quick Reflexes", Description: "Answer within 1 second", ConditionType: domain.ConditionQuizSpeed, ConditionValue: 1, ExpReward: 150, Icon: "⚡"},
		{Name: "Lightning Fast", Description: "Answer within half a second", ConditionType: domain.ConditionQuizSpeed, ConditionValue: 0.5, ExpReward: 300, Icon: "🌟"},

		// Levels
		{Name: "Level Up!", Description: "Reach level 5", ConditionType: domain.ConditionLevel, ConditionValue: 5, ExpReward: 100, Icon: "📈"},
		{Name: "Intermediate Player", Description: "Reach level 10", ConditionType: domain.ConditionLevel, ConditionValue: 10, ExpReward: 200, Icon: "⭐"},
		{Name: "Advanced Player", Description: "Reach level 20", ConditionType: domain.ConditionLevel, ConditionValue: 20, ExpReward: 500, Icon: "💫"},
		{Name: "True Master", Description: "Reach level 30", ConditionType: domain.ConditionLevel, ConditionValue: 30, ExpReward: 750, Icon: "🎯"},
		{Name: "Legendary Learner", Description: "Reach level 40", ConditionType: domain.ConditionLevel, ConditionValue: 40, ExpReward: 1000, Icon: "🏆"},
		{Name: "Realm of the Gods", Description: "Reach level 50", ConditionType: domain.ConditionLevel, ConditionValue: 50, ExpReward: 1500, Icon: "👑"},

		// Perfect play (placeholder conditions)
		{Name: "Perfectionist", Description: "Complete a quiz without mistakes", ConditionType: domain.ConditionPerfectQuiz, ConditionValue: 1, ExpReward: 250, Icon: "💯"},
		{Name: "Flawless Fifty", Description: "50 correct answers in a row", ConditionType: domain.ConditionPerfectStreak, ConditionValue: 50, ExpReward: 300, Icon: "🎯"},
		{Name: "Absolute Perfection", Description: "100 correct answers in a row", ConditionType: domain.ConditionPerfectStreak, ConditionValue: 100, ExpReward: 500, Icon: "🌟"},

		// Review dedication (placeholder conditions)
		{Name: "Review Monster", Description: "Complete 100 review sessions", ConditionType: domain.ConditionReviewSessions, ConditionValue: 100, ExpReward: 200, Icon: "🔄"},
		{Name: "Memory Gatekeeper", Description: "Keep review accuracy at 90%", ConditionType: domain.ConditionReviewAccuracy, ConditionValue: 90, ExpReward: 300, Icon: "🧠"},
	}

	for i := range defs {
		defs[i].ID = int64(i + 1)
	}
	return defs
}
