package service

import (
	"context"
	"net/url"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type customerService struct {
	repo     repository.CustomerRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		repo:     repo,
		validate: newValidator(),
		logger:   logger.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) List(ctx context.Context, params url.Values) ([]model.Customer, query.Page, error) {
	q, err := query.Customers.Parse(params)
	if err != nil {
		return nil, query.Page{}, err
	}

	customers, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, query.Page{}, err
	}
	return customers, q.NewPage(total), nil
}

func (s *customerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *customerService) Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error) {
	if err := s.check(in, false); err != nil {
		return nil, err
	}

	c := &model.Customer{}
	in.Apply(c)

	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("customer_id", c.ID).Msg("customer created")
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id int64, in *model.CustomerInput, partial bool) (*model.Customer, error) {
	if err := s.check(in, partial); err != nil {
		return nil, err
	}

	var c *model.Customer
	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		var err error
		if c, err = s.repo.LockByID(ctx, tx, id); err != nil {
			return err
		}
		in.Apply(c)
		return s.repo.Update(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *customerService) check(in *model.CustomerInput, partial bool) error {
	var required []string
	if !partial {
		required = in.Missing()
	}
	return validateInput(s.validate, in, required)
}
