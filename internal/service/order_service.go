package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/events"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/metrics"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/repository"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/resilience"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DegradedNote is attached to every response served from the fallback store.
const DegradedNote = "Using mock data - database not connected"

const (
	ModePrimary  = "primary"
	ModeDegraded = "degraded"
	ModeMemory   = "memory"
)

const publishTimeout = 10 * time.Second

// Backend is one place orders can be served from, with its own pricing policy.
type Backend struct {
	Name     string
	Orders   repository.OrderRepository
	Menu     repository.MenuRepository
	Pricing  domain.Pricing
	Degraded bool
}

type Options struct {
	// Timeout bounds every primary store call. Zero means no extra bound.
	Timeout time.Duration
	Breaker resilience.Settings
	Now     func() time.Time
}

type Result struct {
	Order    *domain.Order
	Degraded bool
}

type ListResult struct {
	Orders     []domain.Order
	Pagination domain.Pagination
	Degraded   bool
}

type Health struct {
	Mode    string `json:"mode"`
	Primary string `json:"primary,omitempty"`
	Breaker string `json:"breaker,omitempty"`
}

type OrderService struct {
	primary   *Backend
	fallback  *Backend
	breaker   *resilience.CircuitBreaker
	publisher events.Publisher
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewOrderService serves from primary while it is reachable and from
// fallback otherwise. primary may be nil to run on the fallback alone.
func NewOrderService(primary, fallback *Backend, publisher events.Publisher, logger *zap.Logger, opts Options) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &OrderService{
		primary:   primary,
		fallback:  fallback,
		publisher: publisher,
		logger:    logger,
		timeout:   opts.Timeout,
		now:       opts.Now,
	}
	if primary != nil {
		settings := opts.Breaker
		if settings.FailureRatio <= 0 {
			settings = resilience.DefaultSettings()
		}
		// only connectivity failures count against the store
		settings.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || !errors.Is(err, domain.ErrUnavailable)
		}
		s.breaker = resilience.NewCircuitBreaker(primary.Name, "order-service", settings, logger)
	}
	return s
}

func unavailable(err error) bool {
	return errors.Is(err, domain.ErrUnavailable) || resilience.Rejected(err)
}

// execute runs fn against the primary backend through the breaker and
// repeats it on the fallback when the primary cannot be reached. A request
// the caller already abandoned is never replayed.
func execute[T any](ctx context.Context, s *OrderService, op string, fn func(ctx context.Context, b *Backend) (T, error)) (T, bool, error) {
	if s.primary != nil {
		v, err := s.breaker.Execute(func() (interface{}, error) {
			cctx, cancel := s.withTimeout(ctx)
			defer cancel()
			return fn(cctx, s.primary)
		})
		if err == nil {
			return v.(T), false, nil
		}
		if !unavailable(err) || ctx.Err() != nil {
			var zero T
			return zero, false, err
		}

		s.logger.Warn("Primary store unavailable, serving from fallback",
			zap.String("operation", op),
			zap.String("store", s.primary.Name),
			zap.Error(resilience.FormatError(s.primary.Name, err)))
	}

	metrics.FallbackTotal.WithLabelValues(op).Inc()
	v, err := fn(ctx, s.fallback)
	return v, true, err
}

func (s *OrderService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *OrderService) CreateOrder(ctx context.Context, in domain.NewOrder, requestID string) (Result, error) {
	order, degraded, err := execute(ctx, s, "create", func(ctx context.Context, b *Backend) (*domain.Order, error) {
		return s.createOn(ctx, b, in)
	})
	if err != nil {
		if !isClientError(err) && !errors.Is(err, context.Canceled) {
			s.logger.Error("Failed to save order", zap.Error(err))
		}
		return Result{}, err
	}

	mode := ModePrimary
	if degraded {
		mode = s.fallback.Name
	}
	metrics.OrdersCreated.WithLabelValues(mode).Inc()
	s.publish(events.NewOrderEvent(events.OrderCreated, order, degraded, requestID))

	s.logger.Info("Order created successfully",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
		zap.Bool("degraded", degraded))

	return Result{Order: order, Degraded: degraded}, nil
}

// createOn prices and stores the order on b. The primary reserves its number
// first so an unreachable store moves the request to the fallback before any
// menu lookup. The fallback reserves last to keep its numbers gapless.
func (s *OrderService) createOn(ctx context.Context, b *Backend, in domain.NewOrder) (*domain.Order, error) {
	now := s.now()

	var seq int64
	if !b.Degraded {
		var err error
		if seq, err = b.Orders.NextSequence(ctx); err != nil {
			return nil, err
		}
	}

	items := make([]domain.LineItem, 0, len(in.Items))
	prep := make([]int, 0, len(in.Items))
	for _, li := range in.Items {
		ref, prepTime, err := s.resolveItem(ctx, b, li)
		if err != nil {
			return nil, err
		}

		customizations := li.Customizations
		if customizations == nil {
			customizations = []domain.Customization{}
		}
		items = append(items, domain.LineItem{
			MenuItem:            ref,
			Quantity:            li.Quantity,
			UnitPrice:           ref.Price,
			Customizations:      customizations,
			SpecialInstructions: li.SpecialInstructions,
			Subtotal:            domain.LineSubtotal(ref.Price, customizations, li.Quantity),
		})
		prep = append(prep, prepTime)
	}

	if b.Degraded {
		var err error
		if seq, err = b.Orders.NextSequence(ctx); err != nil {
			return nil, err
		}
	}

	totals := b.Pricing.Price(items, in.Tip)
	eta := b.Pricing.Estimate(now, prep)
	order := &domain.Order{
		ID:                    uuid.New().String(),
		OrderNumber:           b.Pricing.FormatNumber(seq),
		Customer:              in.Customer,
		Items:                 items,
		Status:                domain.StatusPlaced,
		OrderType:             in.OrderType,
		TableNumber:           in.TableNumber,
		Subtotal:              totals.Subtotal,
		Tax:                   totals.Tax,
		Tip:                   totals.Tip,
		Total:                 totals.Total,
		PaymentMethod:         in.PaymentMethod,
		PaymentStatus:         domain.PaymentPending,
		EstimatedDeliveryTime: &eta,
		Notes:                 in.Notes,
		StatusHistory: []domain.StatusEntry{
			{Status: domain.StatusPlaced, Timestamp: now, UpdatedBy: domain.SystemActor},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := b.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// resolveItem snapshots the referenced menu item. The fallback catalog only
// knows the sample menu, so there an unknown id is taken at the price the
// client sent.
func (s *OrderService) resolveItem(ctx context.Context, b *Backend, li domain.NewLineItem) (domain.MenuItemRef, int, error) {
	item, err := b.Menu.GetMenuItem(ctx, li.MenuItemID)
	switch {
	case errors.Is(err, domain.ErrMenuItemNotFound):
		if b.Degraded && li.UnitPrice > 0 {
			return domain.MenuItemRef{ID: li.MenuItemID, Price: li.UnitPrice}, 0, nil
		}
		return domain.MenuItemRef{}, 0, &domain.ReferenceError{MenuItemID: li.MenuItemID, Err: domain.ErrMenuItemNotFound}
	case err != nil:
		return domain.MenuItemRef{}, 0, err
	case !item.Availability:
		return domain.MenuItemRef{}, 0, &domain.ReferenceError{MenuItemID: item.ID, Name: item.Name, Err: domain.ErrMenuItemUnavailable}
	}
	return item.Ref(), item.PreparationTime, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (Result, error) {
	order, degraded, err := execute(ctx, s, "get", func(ctx context.Context, b *Backend) (*domain.Order, error) {
		return b.Orders.Get(ctx, id)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Order: order, Degraded: degraded}, nil
}

type listPage struct {
	orders []domain.Order
	total  int
}

func (s *OrderService) ListOrders(ctx context.Context, q domain.OrderQuery) (ListResult, error) {
	q.Normalize()

	page, degraded, err := execute(ctx, s, "list", func(ctx context.Context, b *Backend) (listPage, error) {
		orders, total, err := b.Orders.List(ctx, q)
		return listPage{orders: orders, total: total}, err
	})
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return ListResult{}, err
	}
	return ListResult{
		Orders:     page.orders,
		Pagination: domain.NewPagination(q, page.total),
		Degraded:   degraded,
	}, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, next domain.Status, updatedBy, requestID string) (Result, error) {
	return s.mutate(ctx, "update_status", id, events.OrderStatusChanged, requestID, func(o *domain.Order) error {
		return o.Transition(next, updatedBy, s.now())
	})
}

func (s *OrderService) CancelOrder(ctx context.Context, id, updatedBy, requestID string) (Result, error) {
	return s.mutate(ctx, "cancel", id, events.OrderCancelled, requestID, func(o *domain.Order) error {
		return o.Cancel(updatedBy, s.now())
	})
}

// mutate loads the order, applies change and writes the whole document back.
func (s *OrderService) mutate(ctx context.Context, op, id string, evType events.EventType, requestID string, change func(o *domain.Order) error) (Result, error) {
	var foundOnPrimary bool
	order, degraded, err := execute(ctx, s, op, func(ctx context.Context, b *Backend) (*domain.Order, error) {
		o, err := b.Orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == s.primary {
			foundOnPrimary = true
		}
		if err := change(o); err != nil {
			return nil, err
		}
		if err := b.Orders.Update(ctx, o); err != nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil {
		// 메모리 저장소는 DB와 동기화되지 않음
		if degraded && foundOnPrimary && errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Warn("Order exists only in primary store, write lost to outage",
				zap.String("operation", op),
				zap.String("order_id", id))
		}
		if !isClientError(err) && !errors.Is(err, context.Canceled) {
			s.logger.Error("Failed to update order", zap.String("order_id", id), zap.Error(err))
		}
		return Result{}, err
	}

	metrics.StatusTransitions.WithLabelValues(string(order.Status)).Inc()
	s.publish(events.NewOrderEvent(evType, order, degraded, requestID))

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.Bool("degraded", degraded))

	return Result{Order: order, Degraded: degraded}, nil
}

// publish sends the event in the background.
func (s *OrderService) publish(event events.OrderEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			// 이벤트 발행 실패 시 로그만 (Eventual Consistency)
			metrics.EventsPublished.WithLabelValues(string(event.Type), "error").Inc()
			s.logger.Error("Failed to publish event",
				zap.String("order_id", event.OrderID),
				zap.String("type", string(event.Type)),
				zap.Error(err))
			return
		}
		metrics.EventsPublished.WithLabelValues(string(event.Type), "ok").Inc()
	}()
}

func (s *OrderService) Health() Health {
	if s.primary == nil {
		return Health{Mode: ModeMemory}
	}
	h := Health{Mode: ModePrimary, Primary: s.primary.Name, Breaker: s.breaker.GetState()}
	if s.breaker.GetStateValue() != 0 {
		h.Mode = ModeDegraded
	}
	return h
}

// Close waits for in-flight event publishing.
func (s *OrderService) Close() {
	s.wg.Wait()
}

func isClientError(err error) bool {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
		serr *domain.StateError
	)
	return errors.As(err, &verr) || errors.As(err, &rerr) || errors.As(err, &serr) ||
		errors.Is(err, domain.ErrOrderNotFound)
}
