package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLevels() []*domain.Level {
	return []*domain.Level{
		{Level: 1, ExpRequired: 0, Title: "Beginner"},
		{Level: 2, ExpRequired: 100, Title: "Novice"},
		{Level: 3, ExpRequired: 250, Title: "Apprentice"},
		{Level: 4, ExpRequired: 500, Title: "Student"},
	}
}

func testUser(exp, level int) *domain.User {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:             uuid.New(),
		Email:          "learner@example.com",
		HashedPassword: "not-a-real-hash",
		Exp:            exp,
		Level:          level,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newGamificationFixture wires a service over fresh fakes. Callers mutate the
// returned stores to shape each scenario.
type gamificationFixture struct {
	svc          GamificationService
	users        *fakeUserStore
	levels       *fakeLevelStore
	achievements *fakeAchievementStore
	progress     *fakeProgressStore
}

func newGamificationFixture(t *testing.T, user *domain.User, now time.Time) *gamificationFixture {
	t.Helper()

	users := newFakeUserStore(user)
	levels := newFakeLevelStore(testLevels()...)
	achievements := newFakeAchievementStore()
	progress := newFakeProgressStore()

	svc := NewGamificationServiceWithClock(
		&fakeTransactioner{},
		users,
		levels,
		achievements,
		progress,
		testLogger(),
		fixedClock(now),
	)

	return &gamificationFixture{
		svc:          svc,
		users:        users,
		levels:       levels,
		achievements: achievements,
		progress:     progress,
	}
}

func TestAddExperience_CrossesOneThreshold(t *testing.T) {
	user := testUser(90, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	result, err := fx.svc.AddExperience(context.Background(), user.ID, 15, "test grant")
	require.NoError(t, err)

	assert.Equal(t, 15, result.ExpGained)
	assert.Equal(t, 1, result.OldLevel)
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LevelUp)
	assert.Equal(t, 105, result.User.Exp)

	stored, err := fx.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, stored.Exp)
	assert.Equal(t, 2, stored.Level)
}

func TestAddExperience_MultiLevelJump(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	result, err := fx.svc.AddExperience(context.Background(), user.ID, 300, "big grant")
	require.NoError(t, err)

	assert.Equal(t, 3, result.NewLevel, "a single grant advances through every satisfied threshold")
	assert.True(t, result.LevelUp)
}

func TestAddExperience_TotalExpBased(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	// Three grants of 100 must land where one grant of 300 would.
	for i := 0; i < 3; i++ {
		_, err := fx.svc.AddExperience(ctx, user.ID, 100, "drip")
		require.NoError(t, err)
	}

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, stored.Exp)
	assert.Equal(t, 3, stored.Level)
}

func TestAddExperience_RejectsNonPositiveAmounts(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	for _, amount := range []int{0, -5} {
		_, err := fx.svc.AddExperience(context.Background(), user.ID, amount, "bad")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	stored, err := fx.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Exp, "rejected grants must not change state")
}

func TestAddExperience_LevelNeverDecreases(t *testing.T) {
	// A user holding a level above what their experience justifies keeps it.
	user := testUser(10, 3)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	result, err := fx.svc.AddExperience(context.Background(), user.ID, 5, "small")
	require.NoError(t, err)

	assert.Equal(t, 3, result.NewLevel)
	assert.False(t, result.LevelUp)
}

func TestAddExperience_UnknownUser(t *testing.T) {
	fx := newGamificationFixture(t, testUser(0, 1), time.Now().UTC())

	_, err := fx.svc.AddExperience(context.Background(), uuid.New(), 10, "ghost")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCheckAchievements_GrantsAndCreditsReward(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "First Steps", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 1, ExpReward: 10},
	}
	require.NoError(t, fx.progress.Create(ctx, mustNewProgress(t, user.ID, 1)))

	granted, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, int64(1), granted[0].AchievementID)
	assert.Equal(t, "First Steps", granted[0].Achievement.Name)

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Exp, "the reward is credited with the grant")
}

func TestCheckAchievements_NeverGrantsTwice(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "First Steps", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 1, ExpReward: 10},
	}
	require.NoError(t, fx.progress.Create(ctx, mustNewProgress(t, user.ID, 1)))

	first, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Exp, "the reward is credited exactly once")
}

func TestCheckAchievements_RewardCascadesIntoLevelCondition(t *testing.T) {
	// The first grant's reward pushes the user over a level threshold; the
	// level achievement later in the same pass must see the new level.
	user := testUser(95, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "First Steps", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 1, ExpReward: 10},
		{ID: 2, Name: "Level 2", ConditionType: domain.ConditionLevel, ConditionValue: 2, ExpReward: 20},
	}
	require.NoError(t, fx.progress.Create(ctx, mustNewProgress(t, user.ID, 1)))

	granted, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 2)
	assert.Equal(t, int64(1), granted[0].AchievementID)
	assert.Equal(t, int64(2), granted[1].AchievementID)

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 125, stored.Exp)
	assert.Equal(t, 2, stored.Level)
}

func TestCheckAchievements_ConcurrentDuplicateSkipsWithoutCredit(t *testing.T) {
	user := testUser(0, 1)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "First Steps", ConditionType: domain.ConditionCharactersLearned, ConditionValue: 1, ExpReward: 10},
	}
	require.NoError(t, fx.progress.Create(ctx, mustNewProgress(t, user.ID, 1)))

	// Another evaluator wins the insert race.
	fx.achievements.grantErr = store.ErrAchievementGranted

	granted, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	stored, err := fx.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Exp, "the loser of the race must not credit the reward")
}

func TestCheckAchievements_PlaceholderConditionsNeverGrant(t *testing.T) {
	user := testUser(10000, 4)
	fx := newGamificationFixture(t, user, time.Now().UTC())
	ctx := context.Background()

	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "Speed Demon", ConditionType: domain.ConditionQuizSpeed, ConditionValue: 0.5, ExpReward: 100},
		{ID: 2, Name: "Perfect Quiz", ConditionType: domain.ConditionPerfectQuiz, ConditionValue: 1, ExpReward: 100},
		{ID: 3, Name: "Reviewer", ConditionType: domain.ConditionReviewSessions, ConditionValue: 1, ExpReward: 100},
	}

	granted, err := fx.svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestCheckAchievements_ScriptMasteryConditions(t *testing.T) {
	user := testUser(0, 1)
	now := time.Now().UTC()

	hiragana := &domain.Character{ID: 1, Glyph: "あ", Romaji: "a", Script: domain.ScriptHiragana}
	katakana := &domain.Character{ID: 47, Glyph: "ア", Romaji: "a", Script: domain.ScriptKatakana}

	users := newFakeUserStore(user)
	levels := newFakeLevelStore(testLevels()...)
	achievements := newFakeAchievementStore(
		&domain.Achievement{ID: 1, Name: "Hiragana Start", ConditionType: domain.ConditionHiraganaMastered, ConditionValue: 1, ExpReward: 5},
		&domain.Achievement{ID: 2, Name: "Katakana Start", ConditionType: domain.ConditionKatakanaMastered, ConditionValue: 1, ExpReward: 5},
	)
	progress := newFakeProgressStore(hiragana, katakana)

	svc := NewGamificationServiceWithClock(
		&fakeTransactioner{}, users, levels, achievements, progress, testLogger(), fixedClock(now))

	ctx := context.Background()
	mastered := mustNewProgress(t, user.ID, hiragana.ID)
	mastered.Status = domain.StatusMastered
	require.NoError(t, progress.Create(ctx, mastered))

	granted, err := svc.CheckAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, int64(1), granted[0].AchievementID, "only the hiragana condition is satisfied")
}

func mustNewProgress(t *testing.T, userID uuid.UUID, characterID int64) *domain.Progress {
	t.Helper()
	p, err := domain.NewProgress(userID, characterID)
	require.NoError(t, err)
	return p
}

func TestTouchStreak_FirstStudyDay(t *testing.T) {
	user := testUser(0, 1)
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	fx := newGamificationFixture(t, user, today)

	result, err := fx.svc.TouchStreak(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentStreak)
	assert.True(t, result.Updated)
	require.NotNil(t, result.LastDate)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *result.LastDate)
}

func TestTouchStreak_SameDayIsNoOp(t *testing.T) {
	user := testUser(0, 1)
	today := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	lastDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	user.StreakCount = 4
	user.StreakLastDate = &lastDate

	fx := newGamificationFixture(t, user, today)

	result, err := fx.svc.TouchStreak(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, result.CurrentStreak)
	assert.False(t, result.Updated)
	assert.Nil(t, result.NewAchievements, "an unchanged streak does not re-evaluate achievements")
}

func TestTouchStreak_YesterdayExtends(t *testing.T) {
	user := testUser(0, 1)
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	lastDate := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	user.StreakCount = 2
	user.StreakLastDate = &lastDate

	fx := newGamificationFixture(t, user, today)

	result, err := fx.svc.TouchStreak(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CurrentStreak)
	assert.True(t, result.Updated)
}

func TestTouchStreak_GapResets(t *testing.T) {
	user := testUser(0, 1)
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	lastDate := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	user.StreakCount = 15
	user.StreakLastDate = &lastDate

	fx := newGamificationFixture(t, user, today)

	result, err := fx.svc.TouchStreak(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentStreak)
	assert.True(t, result.Updated)
}

func TestTouchStreak_ChangedStreakChecksAchievements(t *testing.T) {
	user := testUser(0, 1)
	today := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	lastDate := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	user.StreakCount = 2
	user.StreakLastDate = &lastDate

	fx := newGamificationFixture(t, user, today)
	fx.achievements.achievements = []*domain.Achievement{
		{ID: 1, Name: "Three in a Row", ConditionType: domain.ConditionStreak, ConditionValue: 3, ExpReward: 50},
	}

	result, err := fx.svc.TouchStreak(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.CurrentStreak)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, int64(1), result.NewAchievements[0].AchievementID)

	stored, err := fx.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Exp)
}

func TestNextStreak(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)

	tests := []struct {
		name        string
		count       int
		last        *time.Time
		wantCount   int
		wantUpdated bool
	}{
		{"no prior study", 0, nil, 1, true},
		{"already credited today", 5, &today, 5, false},
		{"yesterday extends", 5, &yesterday, 6, true},
		{"gap resets", 5, &lastWeek, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, updated := nextStreak(tt.count, tt.last, today)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantUpdated, updated)
		})
	}
}

func TestUserLevel_MidTable(t *testing.T) {
	user := testUser(150, 2)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	info, err := fx.svc.UserLevel(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, info.CurrentLevel)
	assert.Equal(t, 150, info.CurrentExp)
	assert.Equal(t, 100, info.ExpForCurrentLevel)
	assert.Equal(t, "Novice", info.Title)
	require.NotNil(t, info.NextLevelExp)
	assert.Equal(t, 250, *info.NextLevelExp)
	require.NotNil(t, info.ExpToNextLevel)
	assert.Equal(t, 100, *info.ExpToNextLevel)
	// 50 earned of the 150 between thresholds 100 and 250.
	assert.InDelta(t, 33.33, info.Progress, 0.01)
}

func TestUserLevel_AtMaxLevel(t *testing.T) {
	user := testUser(9999, 4)
	fx := newGamificationFixture(t, user, time.Now().UTC())

	info, err := fx.svc.UserLevel(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, info.CurrentLevel)
	assert.Nil(t, info.NextLevelExp)
	assert.Nil(t, info.ExpToNextLevel)
	assert.Equal(t, float64(100), info.Progress)
}

func TestComputeLevel(t *testing.T) {
	levels := testLevels()

	tests := []struct {
		name         string
		exp          int
		currentLevel int
		expected     int
	}{
		{"below first threshold stays put", 50, 1, 1},
		{"exactly at a threshold advances", 100, 1, 2},
		{"between thresholds", 150, 1, 2},
		{"skips intermediate levels", 600, 1, 4},
		{"never demotes", 0, 3, 3},
		{"empty table keeps current", 500, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := levels
			if tt.name == "empty table keeps current" {
				table = nil
			}
			assert.Equal(t, tt.expected, computeLevel(table, tt.exp, tt.currentLevel))
		})
	}
}
