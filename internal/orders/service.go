package orders

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EventPublisher receives order lifecycle events after successful
// mutations. Satisfied by events.Publisher; a nil publisher disables
// publishing.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Service is the order façade. It owns no business state: every operation
// is one round trip to the injected DataSource followed by normalization,
// so live and mock modes produce identically shaped results. Transport
// failures propagate to the caller untouched.
type Service struct {
	source DataSource
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithEvents(events EventPublisher) Option {
	return func(s *Service) { s.events = events }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(source DataSource, opts ...Option) *Service {
	s := &Service{
		source: source,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context, params ListParams) ([]Order, Pagination, error) {
	raws, pagination, err := s.source.ListOrders(ctx, params)
	if err != nil {
		return nil, Pagination{}, err
	}
	out := make([]Order, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeOrder(raw))
	}
	return out, pagination, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	raw, err := s.source.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return NormalizeOrder(raw), nil
}

func (s *Service) GenerateOrderNumber(ctx context.Context, params NumberParams) (GeneratedNumber, error) {
	raw, err := s.source.GenerateOrderNumber(ctx, params)
	if err != nil {
		return GeneratedNumber{}, err
	}
	return GeneratedNumber{
		OrderNumber:    rawString(raw, "orderNumber", "order_number"),
		OrderReference: rawString(raw, "orderReference", "order_reference"),
	}, nil
}

func (s *Service) CreateOrder(ctx context.Context, data Raw) (Order, error) {
	raw, err := s.source.CreateOrder(ctx, data)
	if err != nil {
		return Order{}, err
	}
	order := NormalizeOrder(raw)
	s.publish(ctx, "order.created", orderEvent(order, s.now()))
	return order, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status string, extra Raw) (Order, error) {
	raw, err := s.source.UpdateOrderStatus(ctx, id, status, extra)
	if err != nil {
		return Order{}, err
	}
	order := NormalizeOrder(raw)
	s.publish(ctx, "order.status.updated", orderEvent(order, s.now()))
	return order, nil
}

// CancelOrder is sugar for a cancelled-status update carrying the reason.
func (s *Service) CancelOrder(ctx context.Context, id string, reason string) (Order, error) {
	extra := Raw{}
	if reason != "" {
		extra["reason"] = reason
	}
	return s.UpdateOrderStatus(ctx, id, "cancelled", extra)
}

func (s *Service) UpdateOrderAutoFlow(ctx context.Context, id string, update AutoFlowUpdate) (Order, error) {
	raw, err := s.source.UpdateOrderAutoFlow(ctx, id, update)
	if err != nil {
		return Order{}, err
	}
	order := NormalizeOrder(raw)
	s.publish(ctx, "order.autoflow.updated", orderEvent(order, s.now()))
	return order, nil
}

// UpdateOrderItemState returns the refreshed order and item. Either may be
// nil when the backend chooses not to echo them.
func (s *Service) UpdateOrderItemState(ctx context.Context, orderID, itemID string, update ItemStateUpdate) (*Order, *Item, error) {
	rawOrder, rawItem, err := s.source.UpdateOrderItemState(ctx, orderID, itemID, update)
	if err != nil {
		return nil, nil, err
	}

	var order *Order
	if rawOrder != nil {
		normalized := NormalizeOrder(rawOrder)
		order = &normalized
	}
	var item *Item
	if rawItem != nil {
		normalized := NormalizeItem(rawItem)
		item = &normalized
	}

	event := Raw{"orderId": orderID, "itemId": itemID, "state": update.State, "at": s.now()}
	if item != nil {
		event["state"] = item.CanonicalState
	}
	s.publish(ctx, "order.item.updated", event)
	return order, item, nil
}

func (s *Service) OrderQueue(ctx context.Context, params QueueParams) (QueueSnapshot, error) {
	raw, err := s.source.OrderQueue(ctx, params)
	if err != nil {
		return QueueSnapshot{}, err
	}
	return NormalizeQueuePayload(raw), nil
}

func (s *Service) OrderHistory(ctx context.Context, params ListParams) ([]Order, error) {
	raws, err := s.source.OrderHistory(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeOrder(raw))
	}
	return out, nil
}

// ProcessPayment is an opaque pass-through to the payment collaborator.
func (s *Service) ProcessPayment(ctx context.Context, orderID string, data Raw) (Raw, error) {
	return s.source.ProcessPayment(ctx, orderID, data)
}

// publish fires an event without failing the operation: the mutation has
// already happened, and the service runs fine without a broker.
func (s *Service) publish(ctx context.Context, routingKey string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		s.logger.Warn("event publish failed", zap.String("routingKey", routingKey), zap.Error(err))
	}
}

func orderEvent(order Order, at time.Time) Raw {
	return Raw{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
		"at":          at,
	}
}
