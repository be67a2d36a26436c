package inventory

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"time"
)

// Repo is the Postgres ledger. Stock changes are single-statement conditional
// updates so concurrent orders can never drive a row below zero.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Decrement(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	var stock int
	err := r.DB.QueryRow(ctx, `
		UPDATE ingredients SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`, id, qty).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// no row updated: either the id is unknown or stock is short
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ingredients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrIngredientNotFound
	}
	return 0, ErrInsufficientStock
}

func (r *Repo) Increment(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	ct, err := r.DB.Exec(ctx, `UPDATE ingredients SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

const ingredientCols = `id, name, category, price::text, stock, threshold, created_at, updated_at`

func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]Ingredient, error) {
	out := make(map[string]Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT `+ingredientCols+` FROM ingredients WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

func (r *Repo) ListBelow(ctx context.Context, threshold int) ([]Ingredient, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+ingredientCols+` FROM ingredients
		WHERE stock < $1
		ORDER BY category, name`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ingredient
	for rows.Next() {
		it, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Put(ctx context.Context, ing Ingredient) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO ingredients(id, name, category, price, stock, threshold)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			threshold = EXCLUDED.threshold,
			updated_at = now()
	`, ing.ID, ing.Name, string(ing.Category), ing.Price.String(), ing.Stock, ing.Threshold)
	return err
}

func scanIngredient(row pgx.Row) (Ingredient, error) {
	var (
		it       Ingredient
		category string
		price    string
		created  time.Time
		updated  time.Time
	)
	if err := row.Scan(&it.ID, &it.Name, &category, &price, &it.Stock, &it.Threshold, &created, &updated); err != nil {
		return Ingredient{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Ingredient{}, err
	}
	it.Category = Category(category)
	it.Price = p
	it.CreatedAt = created
	it.UpdatedAt = updated
	return it, nil
}
