package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderNumberAttempts bounds order number generation on unique collisions.
const orderNumberAttempts = 3

// orderNumberTaken reports a unique violation on the generated order number.
func orderNumberTaken(err error) bool {
	de, ok := model.AsDomainError(err)
	return ok && de.Code == model.ErrCodeValidation && de.Fields["order_number"] != ""
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	validate    *validator.Validate
	now         func() time.Time
	newToken    func() string
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		validate:    newValidator(),
		now:         time.Now,
		newToken:    uuid.NewString,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) List(ctx context.Context, params url.Values) ([]model.Order, query.Page, error) {
	q, err := query.Orders.Parse(params)
	if err != nil {
		return nil, query.Page{}, err
	}

	orders, total, err := s.orderRepo.List(ctx, q)
	if err != nil {
		return nil, query.Page{}, err
	}
	return orders, q.NewPage(total), nil
}

// Get retrieves an order by its ID with all items.
func (s *orderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// Create numbers the order, snapshots item prices and computes the total in one transaction.
func (s *orderService) Create(ctx context.Context, in *model.OrderInput) (*model.Order, error) {
	if err := validateInput(s.validate, in, in.Missing()); err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber:   model.NewOrderNumber(s.newToken()),
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
	}
	in.Apply(order)
	if in.Status != nil {
		if err := order.MoveTo(model.OrderStatus(*in.Status), s.now()); err != nil {
			return nil, err
		}
	}

	// Extract product IDs
	productIDs := make([]int64, 0, len(in.Items))
	seen := make(map[int64]bool, len(in.Items))
	for _, item := range in.Items {
		if !seen[item.Product] {
			seen[item.Product] = true
			productIDs = append(productIDs, item.Product)
		}
	}

	create := func(tx pgx.Tx) error {
		products, err := s.productRepo.GetByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		unknown := map[string]string{}
		order.Items = make([]model.OrderItem, 0, len(in.Items))
		for i, item := range in.Items {
			p, ok := products[item.Product]
			if !ok {
				unknown[fmt.Sprintf("items[%d].product", i)] = fmt.Sprintf("product %d does not exist", item.Product)
				continue
			}
			price := p.EffectivePrice()
			if item.Price != nil {
				price = *item.Price
			}
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				Price:       price,
				Size:        item.Size,
				Color:       item.Color,
			})
		}
		if len(unknown) > 0 {
			s.logger.Warn().Int("unknown_products", len(unknown)).Msg("order references unknown products")
			return model.NewValidationError(unknown)
		}

		order.RecalculateTotal()
		if err := order.CheckTotal(); err != nil {
			return err
		}

		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, order.Items)
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = withTx(ctx, s.orderRepo, s.logger, create)
		if attempt == orderNumberAttempts || !orderNumberTaken(err) {
			break
		}
		s.logger.Warn().Str("order_number", order.OrderNumber).Msg("order number collision, regenerating")
		order.OrderNumber = model.NewOrderNumber(s.newToken())
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(order.Items)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("order created successfully")

	return s.orderRepo.GetByID(ctx, order.ID)
}

// Update enforces the status state machine and recomputes the total when charges change.
func (s *orderService) Update(ctx context.Context, id int64, in *model.OrderInput, partial bool) (*model.Order, error) {
	var required []string
	if !partial && in.Customer == nil {
		required = append(required, "customer")
	}
	if err := validateInput(s.validate, in, required); err != nil {
		return nil, err
	}
	if len(in.Items) > 0 {
		return nil, model.FieldError("items", "items cannot be changed once the order is placed")
	}

	err := withTx(ctx, s.orderRepo, s.logger, func(tx pgx.Tx) error {
		order, err := s.orderRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		in.Apply(order)
		if in.Status != nil {
			if err := order.MoveTo(model.OrderStatus(*in.Status), s.now()); err != nil {
				return err
			}
		}

		if in.ShippingCost != nil || in.TaxAmount != nil {
			items, err := s.orderRepo.ItemsTotal(ctx, tx, id)
			if err != nil {
				return err
			}
			order.TotalAmount = items.Add(order.ShippingCost).Add(order.TaxAmount)
		}

		return s.orderRepo.UpdateOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, id)
}

// Delete removes the order together with its items and delivery.
func (s *orderService) Delete(ctx context.Context, id int64) error {
	err := withTx(ctx, s.orderRepo, s.logger, func(tx pgx.Tx) error {
		return s.orderRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}
