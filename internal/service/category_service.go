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

// categoryService implements CategoryService.
type categoryService struct {
	repo     repository.CategoryRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		repo:     repo,
		validate: newValidator(),
		logger:   logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context, params url.Values) ([]model.Category, query.Page, error) {
	q, err := query.Categories.Parse(params)
	if err != nil {
		return nil, query.Page{}, err
	}

	categories, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, query.Page{}, err
	}
	return categories, q.NewPage(total), nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	if err := s.check(in, false); err != nil {
		return nil, err
	}

	c := &model.Category{}
	in.Apply(c)
	if c.Slug == "" {
		return nil, model.FieldError("slug", "could not derive a slug from name")
	}

	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("category_id", c.ID).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, in *model.CategoryInput, partial bool) (*model.Category, error) {
	if err := s.check(in, partial); err != nil {
		return nil, err
	}

	var c *model.Category
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

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	err := withTx(ctx, s.repo, s.logger, func(tx pgx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *categoryService) check(in *model.CategoryInput, partial bool) error {
	var required []string
	if !partial {
		required = in.Missing()
	}
	return validateInput(s.validate, in, required)
}
