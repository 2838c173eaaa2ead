package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/emporium/internal/game/shop"
)

// ErrShopNotFound is returned when a shop lookup yields no results.
var ErrShopNotFound = errors.New("shop not found")

// ErrShopExists is returned when creating a second shop for the same owner.
var ErrShopExists = errors.New("owner already has a shop")

// ShopRepository provides shop persistence operations. Inventory and craft
// counters are stored as JSONB.
type ShopRepository struct {
	db *pgxpool.Pool
}

// NewShopRepository creates a ShopRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

const shopColumns = `id, owner, town_name, gold, level, specialization,
	inventory, craft_counts, reputation, customer_boost`

func scanShop(row pgx.Row) (*shop.Shop, error) {
	var s shop.Shop
	err := row.Scan(
		&s.ID, &s.Owner, &s.TownName, &s.Gold, &s.Level, &s.Specialization,
		&s.Inventory, &s.CraftCounts, &s.Reputation, &s.CustomerBoost,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new shop and returns it with ID set.
//
// Precondition: s.Owner must be non-empty; at most one shop per owner.
// Postcondition: Returns the created shop with ID set, or ErrShopExists on
// duplicate owner.
func (r *ShopRepository) Create(ctx context.Context, s *shop.Shop) (*shop.Shop, error) {
	out, err := scanShop(r.db.QueryRow(ctx, `
		INSERT INTO shops
			(owner, town_name, gold, level, specialization,
			 inventory, craft_counts, reputation, customer_boost)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+shopColumns,
		s.Owner, s.TownName, s.Gold, s.Level, s.Specialization,
		s.Inventory, s.CraftCounts, s.Reputation, s.CustomerBoost,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrShopExists
		}
		return nil, fmt.Errorf("inserting shop: %w", err)
	}
	return out, nil
}

// GetByOwner retrieves the shop belonging to the named character.
//
// Precondition: owner must be non-empty.
// Postcondition: Returns the Shop or ErrShopNotFound.
func (r *ShopRepository) GetByOwner(ctx context.Context, owner string) (*shop.Shop, error) {
	s, err := scanShop(r.db.QueryRow(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE owner = $1`, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("querying shop: %w", err)
	}
	return s, nil
}

// Save persists the shop's full mutable state after a session.
//
// Precondition: s.ID must be > 0.
// Postcondition: Returns nil on success, ErrShopNotFound if no row updated.
func (r *ShopRepository) Save(ctx context.Context, s *shop.Shop) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE shops SET
			town_name = $2, gold = $3, level = $4, specialization = $5,
			inventory = $6, craft_counts = $7, reputation = $8,
			customer_boost = $9, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.TownName, s.Gold, s.Level, s.Specialization,
		s.Inventory, s.CraftCounts, s.Reputation, s.CustomerBoost,
	)
	if err != nil {
		return fmt.Errorf("saving shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrShopNotFound
	}
	return nil
}
