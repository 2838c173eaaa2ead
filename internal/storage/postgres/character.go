package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/emporium/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name
// that is already in use.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations. Scalar
// fields map to columns; collections (inventory, journal, bonuses,
// reputations) are stored as JSONB.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, name, background, feats, level, experience, pending_xp,
	strength, dexterity, constitution, intelligence, wisdom, charisma,
	background_bonuses, feat_bonuses, allocated_points, unspent_skill_points,
	max_hp, current_hp, hit_dice, exhaustion, gold,
	inventory, attuned, reputations, journal, town_name, created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	err := row.Scan(
		&c.ID, &c.Name, &c.Background, &c.Feats, &c.Level, &c.Experience, &c.PendingXP,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.BackgroundBonuses, &c.FeatBonuses, &c.AllocatedPoints, &c.UnspentSkillPoints,
		&c.MaxHP, &c.CurrentHP, &c.HitDice, &c.Exhaustion, &c.Gold,
		&c.Inventory, &c.Attuned, &c.Reputations, &c.Journal, &c.TownName,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.Name must be non-empty.
// Postcondition: Returns the created character with ID set, or
// ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(name, background, feats, level, experience, pending_xp,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 background_bonuses, feat_bonuses, allocated_points, unspent_skill_points,
			 max_hp, current_hp, hit_dice, exhaustion, gold,
			 inventory, attuned, reputations, journal, town_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
		        $17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING `+characterColumns,
		c.Name, c.Background, c.Feats, c.Level, c.Experience, c.PendingXP,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.BackgroundBonuses, c.FeatBonuses, c.AllocatedPoints, c.UnspentSkillPoints,
		c.MaxHP, c.CurrentHP, c.HitDice, c.Exhaustion, c.Gold,
		c.Inventory, c.Attuned, c.Reputations, c.Journal, c.TownName,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByName retrieves a character by display name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// Save persists the character's full mutable state after a session.
//
// Precondition: c.ID must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row
// updated.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			background = $2, feats = $3, level = $4, experience = $5, pending_xp = $6,
			strength = $7, dexterity = $8, constitution = $9,
			intelligence = $10, wisdom = $11, charisma = $12,
			background_bonuses = $13, feat_bonuses = $14, allocated_points = $15,
			unspent_skill_points = $16,
			max_hp = $17, current_hp = $18, hit_dice = $19, exhaustion = $20, gold = $21,
			inventory = $22, attuned = $23, reputations = $24, journal = $25,
			town_name = $26, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Background, c.Feats, c.Level, c.Experience, c.PendingXP,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.BackgroundBonuses, c.FeatBonuses, c.AllocatedPoints, c.UnspentSkillPoints,
		c.MaxHP, c.CurrentHP, c.HitDice, c.Exhaustion, c.Gold,
		c.Inventory, c.Attuned, c.Reputations, c.Journal, c.TownName,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
