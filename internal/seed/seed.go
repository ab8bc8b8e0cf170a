package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Run installs the static catalogs (characters, levels, achievements) into
// the database. Inserts are idempotent: rows that already exist are left
// untouched, so Run is safe to call on every startup.
func Run(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if err := seedCharacters(ctx, db); err != nil {
		return fmt.Errorf("failed to seed characters: %w", err)
	}
	if err := seedLevels(ctx, db); err != nil {
		return fmt.Errorf("failed to seed levels: %w", err)
	}
	if err := seedAchievements(ctx, db); err != nil {
		return fmt.Errorf("failed to seed achievements: %w", err)
	}

	log.Info("seed data installed",
		slog.Int("characters", len(Characters())),
		slog.Int("levels", len(Levels())),
		slog.Int("achievements", len(Achievements())))
	return nil
}

func seedCharacters(ctx context.Context, db *sql.DB) error {
	const query = `
		INSERT INTO characters (id, glyph, romaji, script, row_name, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	for _, c := range Characters() {
		if _, err := db.ExecContext(ctx, query,
			c.ID, c.Glyph, c.Romaji, c.Script, c.RowName, c.OrderIndex); err != nil {
			return fmt.Errorf("character %q: %w", c.Glyph, err)
		}
	}
	return nil
}

func seedLevels(ctx context.Context, db *sql.DB) error {
	const query = `
		INSERT INTO levels (level, exp_required, title)
		VALUES ($1, $2, $3)
		ON CONFLICT (level) DO NOTHING`

	for _, l := range Levels() {
		if _, err := db.ExecContext(ctx, query, l.Level, l.ExpRequired, l.Title); err != nil {
			return fmt.Errorf("level %d: %w", l.Level, err)
		}
	}
	return nil
}

func seedAchievements(ctx context.Context, db *sql.DB) error {
	const query = `
		INSERT INTO achievements (id, name, description, condition_type, condition_value, exp_reward, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	for _, a := range Achievements() {
		if _, err := db.ExecContext(ctx, query,
			a.ID, a.Name, a.Description, a.ConditionType, a.ConditionValue, a.ExpReward, a.Icon); err != nil {
			return fmt.Errorf("achievement %q: %w", a.Name, err)
		}
	}
	return nil
}
