package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/store"
)

// fakeTransactioner runs the function directly with a nil *sql.Tx. The fake
// stores ignore WithTx, so transactional flows exercise the same code paths
// without a database.
type fakeTransactioner struct{}

func (f *fakeTransactioner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		copied := *u
		s.users[u.ID] = &copied
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeUserStore) UpdateProgression(ctx context.Context, id uuid.UUID, exp, level int) error {
	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Exp = exp
	u.Level = level
	return nil
}

func (s *fakeUserStore) UpdateStreak(ctx context.Context, id uuid.UUID, streakCount int, lastDate time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.StreakCount = streakCount
	d := lastDate
	u.StreakLastDate = &d
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeLevelStore serves a fixed level table.
type fakeLevelStore struct {
	levels []*domain.Level
}

func newFakeLevelStore(levels ...*domain.Level) *fakeLevelStore {
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })
	return &fakeLevelStore{levels: levels}
}

func (s *fakeLevelStore) List(ctx context.Context) ([]*domain.Level, error) {
	return s.levels, nil
}

func (s *fakeLevelStore) GetByLevel(ctx context.Context, level int) (*domain.Level, error) {
	for _, l := range s.levels {
		if l.Level == level {
			return l, nil
		}
	}
	return nil, store.ErrLevelNotFound
}

// fakeAchievementStore is an in-memory store.AchievementStore.
type fakeAchievementStore struct {
	achievements []*domain.Achievement
	granted      map[uuid.UUID]map[int64]time.Time

	// grantErr, when set, is returned by the next Grant call.
	grantErr error
}

func newFakeAchievementStore(achievements ...*domain.Achievement) *fakeAchievementStore {
	return &fakeAchievementStore{
		achievements: achievements,
		granted:      make(map[uuid.UUID]map[int64]time.Time),
	}
}

func (s *fakeAchievementStore) List(ctx context.Context) ([]*domain.Achievement, error) {
	return s.achievements, nil
}

func (s *fakeAchievementStore) ListGrantedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	var ids []int64
	for id := range s.granted[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *fakeAchievementStore) ListGranted(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error) {
	var result []*domain.UserAchievement
	for id, at := range s.granted[userID] {
		var def *domain.Achievement
		for _, a := range s.achievements {
			if a.ID == id {
				def = a
				break
			}
		}
		result = append(result, &domain.UserAchievement{
			UserID:        userID,
			AchievementID: id,
			AchievedAt:    at,
			Achievement:   def,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievedAt.After(result[j].AchievedAt) })
	return result, nil
}

func (s *fakeAchievementStore) Grant(ctx context.Context, userID uuid.UUID, achievementID int64, at time.Time) error {
	if s.grantErr != nil {
		err := s.grantErr
		s.grantErr = nil
		return err
	}
	if s.granted[userID] == nil {
		s.granted[userID] = make(map[int64]time.Time)
	}
	if _, exists := s.granted[userID][achievementID]; exists {
		return store.ErrAchievementGranted
	}
	s.granted[userID][achievementID] = at
	return nil
}

func (s *fakeAchievementStore) WithTx(tx *sql.Tx) store.AchievementStore { return s }

// progressKey identifies one (user, character) record.
type progressKey struct {
	userID      uuid.UUID
	characterID int64
}

// fakeProgressStore is an in-memory store.ProgressStore.
type fakeProgressStore struct {
	records map[progressKey]*domain.Progress

	// characters backs the script filters of the count methods.
	characters map[int64]*domain.Character
}

func newFakeProgressStore(characters ...*domain.Character) *fakeProgressStore {
	s := &fakeProgressStore{
		records:    make(map[progressKey]*domain.Progress),
		characters: make(map[int64]*domain.Character),
	}
	for _, c := range characters {
		s.characters[c.ID] = c
	}
	return s
}

func (s *fakeProgressStore) Create(ctx context.Context, p *domain.Progress) error {
	key := progressKey{p.UserID, p.CharacterID}
	if _, exists := s.records[key]; exists {
		return store.ErrDuplicate
	}
	copied := *p
	s.records[key] = &copied
	return nil
}

func (s *fakeProgressStore) Get(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error) {
	p, ok := s.records[progressKey{userID, characterID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error) {
	return s.Get(ctx, userID, characterID)
}

func (s *fakeProgressStore) Update(ctx context.Context, p *domain.Progress) error {
	key := progressKey{p.UserID, p.CharacterID}
	if _, ok := s.records[key]; !ok {
		return store.ErrProgressNotFound
	}
	copied := *p
	s.records[key] = &copied
	return nil
}

func (s *fakeProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	var result []*domain.Progress
	for key, p := range s.records {
		if key.userID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (s *fakeProgressStore) ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Progress, error) {
	var result []*domain.Progress
	for key, p := range s.records {
		if key.userID == userID && p.Status != domain.StatusMastered && !p.NextReviewAt.After(now) {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NextReviewAt.Before(result[j].NextReviewAt) })
	return result, nil
}

func (s *fakeProgressStore) matchesScript(characterID int64, script domain.Script) bool {
	if script == "" {
		return true
	}
	c, ok := s.characters[characterID]
	return ok && c.Script == script
}

func (s *fakeProgressStore) CountLearned(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error) {
	n := 0
	for key := range s.records {
		if key.userID == userID && s.matchesScript(key.characterID, script) {
			n++
		}
	}
	return n, nil
}

func (s *fakeProgressStore) CountMastered(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error) {
	n := 0
	for key, p := range s.records {
		if key.userID == userID && p.Status == domain.StatusMastered && s.matchesScript(key.characterID, script) {
			n++
		}
	}
	return n, nil
}

func (s *fakeProgressStore) Totals(ctx context.Context, userID uuid.UUID) (store.AnswerTotals, error) {
	var totals store.AnswerTotals
	for key, p := range s.records {
		if key.userID == userID {
			totals.Correct += p.CorrectCount
			totals.Incorrect += p.IncorrectCount
		}
	}
	return totals, nil
}

func (s *fakeProgressStore) WithTx(tx *sql.Tx) store.ProgressStore { return s }

// fakeCharacterStore serves a fixed catalog.
type fakeCharacterStore struct {
	characters []*domain.Character
	progress   *fakeProgressStore
}

func newFakeCharacterStore(progress *fakeProgressStore, characters ...*domain.Character) *fakeCharacterStore {
	return &fakeCharacterStore{characters: characters, progress: progress}
}

func (s *fakeCharacterStore) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	for _, c := range s.characters {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, store.ErrCharacterNotFound
}

func (s *fakeCharacterStore) List(ctx context.Context, script domain.Script) ([]*domain.Character, error) {
	var result []*domain.Character
	for _, c := range s.characters {
		if script == "" || c.Script == script {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *fakeCharacterStore) ListUnseen(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error) {
	var result []*domain.Character
	for _, c := range s.characters {
		if script != "" && c.Script != script {
			continue
		}
		if s.progress != nil {
			if _, err := s.progress.Get(ctx, userID, c.ID); err == nil {
				continue
			}
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *fakeCharacterStore) Count(ctx context.Context, script domain.Script) (int, error) {
	n := 0
	for _, c := range s.characters {
		if script == "" || c.Script == script {
			n++
		}
	}
	return n, nil
}
