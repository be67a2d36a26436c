package orders

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo is the Postgres order store.
type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, base_id, sauce_id, cheese_id, veggie_ids, meat_ids, total_price::text,
	payment_status, status, gateway_order_id, gateway_payment_id, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, o *Order) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, user_id, base_id, sauce_id, cheese_id, veggie_ids, meat_ids, total_price,
			payment_status, status, gateway_order_id, gateway_payment_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9,$10,$11,$12,$13,$14)
	`, o.ID, o.UserID, o.Items.Base, o.Items.Sauce, o.Items.Cheese, o.Items.Veggies, o.Items.Meat,
		o.TotalPrice.String(), string(o.PaymentStatus), string(o.Status),
		o.GatewayOrderID, o.GatewayPaymentID, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, s Status) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderCols, id, string(s)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o       Order
		total   string
		payment string
		status  string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Items.Base, &o.Items.Sauce, &o.Items.Cheese,
		&o.Items.Veggies, &o.Items.Meat, &total, &payment, &status,
		&o.GatewayOrderID, &o.GatewayPaymentID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	p, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, err
	}
	o.TotalPrice = p
	o.PaymentStatus = PaymentStatus(payment)
	o.Status = Status(status)
	o.Items = o.Items.normalized()
	return o, nil
}
