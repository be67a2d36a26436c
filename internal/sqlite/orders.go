package sqlite

import (
	"context"
	"errors"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"time"
)

type orderRow struct {
	ID               string          `gorm:"primaryKey;size:64"`
	UserID           string          `gorm:"size:64;not null;index"`
	BaseID           string          `gorm:"size:64;not null"`
	SauceID          string          `gorm:"size:64;not null"`
	CheeseID         string          `gorm:"size:64;not null"`
	VeggieIDs        []string        `gorm:"serializer:json"`
	MeatIDs          []string        `gorm:"serializer:json"`
	TotalPrice       decimal.Decimal `gorm:"type:text;not null"`
	PaymentStatus    string          `gorm:"size:16;not null"`
	Status           string          `gorm:"size:32;not null;index"`
	GatewayOrderID   string          `gorm:"size:64"`
	GatewayPaymentID string          `gorm:"size:64"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time
}

func (orderRow) TableName() string { return "orders" }

func fromOrder(o *orders.Order) orderRow {
	return orderRow{
		ID:               o.ID,
		UserID:           o.UserID,
		BaseID:           o.Items.Base,
		SauceID:          o.Items.Sauce,
		CheeseID:         o.Items.Cheese,
		VeggieIDs:        o.Items.Veggies,
		MeatIDs:          o.Items.Meat,
		TotalPrice:       o.TotalPrice,
		PaymentStatus:    string(o.PaymentStatus),
		Status:           string(o.Status),
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func (r orderRow) toDomain() orders.Order {
	o := orders.Order{
		ID:     r.ID,
		UserID: r.UserID,
		Items: orders.Selection{
			Base:    r.BaseID,
			Sauce:   r.SauceID,
			Cheese:  r.CheeseID,
			Veggies: r.VeggieIDs,
			Meat:    r.MeatIDs,
		},
		TotalPrice:       r.TotalPrice,
		PaymentStatus:    orders.PaymentStatus(r.PaymentStatus),
		Status:           orders.Status(r.Status),
		GatewayOrderID:   r.GatewayOrderID,
		GatewayPaymentID: r.GatewayPaymentID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	return o.Clone()
}

type OrderStore struct{ DB *gorm.DB }

func (s *OrderStore) Create(ctx context.Context, o *orders.Order) error {
	row := fromOrder(o)
	err := s.DB.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return orders.ErrAlreadyExists
	}
	return err
}

func (s *OrderStore) Get(ctx context.Context, id string) (*orders.Order, error) {
	var row orderRow
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o := row.toDomain()
	return &o, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	return s.find(s.DB.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *OrderStore) List(ctx context.Context) ([]orders.Order, error) {
	return s.find(s.DB.WithContext(ctx))
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, st orders.Status) (*orders.Order, error) {
	var out *orders.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderRow{}).Where("id = ?", id).Updates(map[string]any{
			"status":     string(st),
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return orders.ErrNotFound
		}
		var row orderRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		o := row.toDomain()
		out = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderStore) find(q *gorm.DB) ([]orders.Order, error) {
	var rows []orderRow
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]orders.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
