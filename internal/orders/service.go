package orders

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	"github.com/harishnarayan-coder/pizza-orders/internal/logging"
	"github.com/harishnarayan-coder/pizza-orders/internal/metrics"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"time"
)

const (
	useCasePlaceOrder   = "order.place"
	useCaseUpdateStatus = "order.update_status"
	spanPrefix          = "UC."
)

// Service places orders and serves order reads.
type Service struct {
	store    Store
	catalog  Catalog
	reserver Reserver
	trigger  LowStockTrigger
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() string
}

func NewService(store Store, catalog Catalog, reserver Reserver, trigger LowStockTrigger, log *zap.Logger) *Service {
	if trigger == nil {
		trigger = TriggerFunc(func(context.Context, *Order) {})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		reserver: reserver,
		trigger:  trigger,
		log:      log,
		tracer:   otel.Tracer("github.com/harishnarayan-coder/pizza-orders/internal/orders"),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// PlaceOrder validates the selection, reserves one unit per ingredient
// occurrence, persists the order and fires the low-stock trigger.
// On any failure no order exists and no stock stays reserved.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (_ *Order, err error) {
	log := logging.FromContextOr(ctx, s.log).With(zap.String("use_case", useCasePlaceOrder))

	ctx, span := s.tracer.Start(ctx, spanPrefix+"PlaceOrder", trace.WithAttributes(
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.user_id", in.UserID),
	))
	start := time.Now()
	outcome := "success"
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, outcome)
		}
		span.End()
		metrics.UsecaseRequests.WithLabelValues(useCasePlaceOrder, outcome).Inc()
		metrics.UsecaseDuration.WithLabelValues(useCasePlaceOrder).Observe(time.Since(start).Seconds())
	}()

	if in.UserID == "" {
		outcome = "unauthenticated"
		return nil, ErrUnauthenticated
	}
	if !in.Items.complete() {
		outcome = "invalid"
		return nil, ErrIncompleteOrder
	}
	payment, err := ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		outcome = "invalid"
		return nil, err
	}
	items := in.Items.normalized()
	ids := items.Flatten()

	total, err := s.price(ctx, ids)
	if err != nil {
		outcome = "unknown_ingredient"
		if !errors.Is(err, inventory.ErrIngredientNotFound) {
			outcome = "catalog_error"
		}
		return nil, err
	}
	if in.TotalPrice != nil && !in.TotalPrice.Equal(total) {
		metrics.PriceMismatches.Inc()
		log.Warn("order_price_mismatch",
			zap.String("client_total", in.TotalPrice.String()), zap.String("server_total", total.String()))
	}

	if err := s.reserver.Reserve(ctx, ids); err != nil {
		outcome = "reservation_failed"
		log.Info("stock_reservation_failed", zap.Strings("ingredients", ids), zap.Error(err))
		return nil, err
	}

	now := s.now()
	o := &Order{
		ID:               s.newID(),
		UserID:           in.UserID,
		Items:            items,
		TotalPrice:       total,
		PaymentStatus:    payment,
		Status:           StatusReceived,
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.GatewayPaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		outcome = "persist_failed"
		if rerr := s.reserver.Release(ctx, ids); rerr != nil {
			log.Error("stock_release_failed", zap.String("order_id", o.ID), zap.Error(rerr))
		}
		log.Error("order_persist_failed", zap.String("order_id", o.ID), zap.Error(err))
		return nil, fmt.Errorf("persist order: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", o.ID))
	log.Info("order_placed", zap.String("order_id", o.ID), zap.String("total", total.String()))

	placed := o.Clone()
	s.trigger.Trigger(ctx, &placed)
	return o, nil
}

// price sums the unit price of every occurrence.
func (s *Service) price(ctx context.Context, ids []string) (decimal.Decimal, error) {
	found, err := s.catalog.GetMany(ctx, unique(ids))
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolve ingredients: %w", err)
	}
	total := decimal.Zero
	for _, id := range ids {
		ing, ok := found[id]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", inventory.ErrIngredientNotFound, id)
		}
		total = total.Add(ing.Price)
	}
	return total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.store.Get(ctx, id)
}

// View returns the order with ingredient names. Ingredients deleted since the
// order was placed keep their id and get an empty name.
func (s *Service) View(ctx context.Context, id string) (*OrderView, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	found, err := s.catalog.GetMany(ctx, unique(o.Items.Flatten()))
	if err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	ref := func(id string) IngredientRef { return IngredientRef{ID: id, Name: found[id].Name} }
	refs := func(ids []string) []IngredientRef {
		out := make([]IngredientRef, 0, len(ids))
		for _, id := range ids {
			out = append(out, ref(id))
		}
		return out
	}
	return &OrderView{
		ID:     o.ID,
		UserID: o.UserID,
		Items: SelectionView{
			Base:    ref(o.Items.Base),
			Sauce:   ref(o.Items.Sauce),
			Cheese:  ref(o.Items.Cheese),
			Veggies: refs(o.Items.Veggies),
			Meat:    refs(o.Items.Meat),
		},
		TotalPrice:       o.TotalPrice,
		PaymentStatus:    o.PaymentStatus,
		Status:           o.Status,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

// UpdateStatus sets the fulfillment status. Any valid status may replace any other.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (_ *Order, err error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.UsecaseRequests.WithLabelValues(useCaseUpdateStatus, outcome).Inc()
		metrics.UsecaseDuration.WithLabelValues(useCaseUpdateStatus).Observe(time.Since(start).Seconds())
	}()

	st, err := ParseStatus(status)
	if err != nil {
		outcome = "invalid"
		return nil, err
	}
	o, err := s.store.UpdateStatus(ctx, id, st)
	if err != nil {
		outcome = "error"
		if errors.Is(err, ErrNotFound) {
			outcome = "not_found"
		}
		return nil, err
	}
	logging.FromContextOr(ctx, s.log).Info("order_status_updated",
		zap.String("order_id", id), zap.String("status", string(st)))
	return o, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
