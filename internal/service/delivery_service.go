package service

import (
	"context"
	"net/url"
	"time"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type deliveryService struct {
	repo     repository.DeliveryRepository
	validate *validator.Validate
	now      func() time.Time
	logger   zerolog.Logger
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(repo repository.DeliveryRepository, logger zerolog.Logger) DeliveryService {
	return &deliveryService{
		repo:     repo,
		validate: newValidator(),
		now:      time.Now,
		logger:   logger.With().Str("service", "delivery").Logger(),
	}
}

func (s *deliveryService) List(ctx context.Context, params url.Values) ([]model.Delivery, query.Page, error) {
	q, err := query.Deliveries.Parse(params)
	if err != nil {
		return nil, query.Page{}, err
	}

	deliveries, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, query.Page{}, err
	}
	return deliveries, q.NewPage(total), nil
}

func (s *deliveryService) Get(ctx context.Context, id int64) (*model.Delivery, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *deliveryService) Create(ctx context.Context, in *model.DeliveryInput) (*model.Delivery, error) {
	if err := validateInput(s.validate, in, in.Missing()); err != nil {
		return nil, err
	}

	d := &model.Delivery{Status: model.DeliveryPending}
	in.Apply(d, s.now())

	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("delivery_id", d.ID).Int64("order_id", d.OrderID).Msg("delivery created")
	return s.repo.GetByID(ctx, d.ID)
}

func (s *deliveryService) Update(ctx context.Context, id int64, in *model.DeliveryInput, partial bool) (*model.Delivery, error) {
	var required []string
	if !partial {
		required = in.Missing()
	}
	if err := validateInput(s.validate, in, required); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		d, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		in.Apply(d, s.now())
		return s.repo.Update(ctx, tx, d)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *deliveryService) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}
