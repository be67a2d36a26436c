package sqlite

import (
	"context"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type ingredientRow struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:128;not null"`
	Category  string          `gorm:"size:16;not null;index"`
	Price     decimal.Decimal `gorm:"type:text;not null"`
	Stock     int             `gorm:"not null;default:0"`
	Threshold int             `gorm:"not null;default:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ingredientRow) TableName() string { return "ingredients" }

func (r ingredientRow) toDomain() inventory.Ingredient {
	return inventory.Ingredient{
		ID:        r.ID,
		Name:      r.Name,
		Category:  inventory.Category(r.Category),
		Price:     r.Price,
		Stock:     r.Stock,
		Threshold: r.Threshold,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type Ledger struct{ DB *gorm.DB }

func (l *Ledger) Decrement(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, inventory.ErrInvalidQuantity
	}
	var remaining []int
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ingredientRow{}).
			Where("id = ? AND stock >= ?", id, qty).
			Updates(map[string]any{
				"stock":      gorm.Expr("stock - ?", qty),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&ingredientRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return inventory.ErrIngredientNotFound
			}
			return inventory.ErrInsufficientStock
		}
		return tx.Model(&ingredientRow{}).Where("id = ?", id).Pluck("stock", &remaining).Error
	})
	if err != nil {
		return 0, err
	}
	if len(remaining) == 0 {
		return 0, inventory.ErrIngredientNotFound
	}
	return remaining[0], nil
}

func (l *Ledger) Increment(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	res := l.DB.WithContext(ctx).Model(&ingredientRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inventory.ErrIngredientNotFound
	}
	return nil
}

func (l *Ledger) GetMany(ctx context.Context, ids []string) (map[string]inventory.Ingredient, error) {
	out := make(map[string]inventory.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ingredientRow
	if err := l.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.toDomain()
	}
	return out, nil
}

func (l *Ledger) ListBelow(ctx context.Context, threshold int) ([]inventory.Ingredient, error) {
	var rows []ingredientRow
	err := l.DB.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("category, name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]inventory.Ingredient, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (l *Ledger) Put(ctx context.Context, ing inventory.Ingredient) error {
	row := ingredientRow{
		ID:        ing.ID,
		Name:      ing.Name,
		Category:  string(ing.Category),
		Price:     ing.Price,
		Stock:     ing.Stock,
		Threshold: ing.Threshold,
	}
	return l.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price", "stock", "threshold", "updated_at"}),
	}).Create(&row).Error
}
