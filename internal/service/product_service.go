package service

import (
	"context"
	"net/url"

	"luxe-backoffice/internal/media"
	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	store       media.Store
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, store media.Store, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		store:       store,
		validate:    newValidator(),
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

func (s *productService) list(ctx context.Context, params url.Values, restrict ...func(*query.Query)) ([]model.Product, query.Page, error) {
	q, err := query.Products.Parse(params)
	if err != nil {
		return nil, query.Page{}, err
	}
	for _, r := range restrict {
		r(q)
	}

	products, total, err := s.productRepo.List(ctx, q)
	if err != nil {
		return nil, query.Page{}, err
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("page", q.Page).
		Msg("retrieved products")

	return products, q.NewPage(total), nil
}

// List applies the visibility policy on top of any client filters.
func (s *productService) List(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return s.list(ctx, params, query.VisibleProducts)
}

func (s *productService) Featured(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return s.list(ctx, params, query.VisibleProducts, query.FeaturedProducts)
}

func (s *productService) AdminList(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return s.list(ctx, params)
}

// Get retrieves a single product by ID.
func (s *productService) Get(ctx context.Context, id int64, includeHidden bool) (*model.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeHidden && !p.IsPubliclyVisible() {
		s.logger.Debug().Int64("product_id", id).Msg("product not publicly visible")
		return nil, model.NotFound("product", id)
	}
	return p, nil
}

func (s *productService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	if err := s.check(in, false); err != nil {
		return nil, err
	}

	p := model.NewProduct()
	in.Apply(p)

	err := withTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		return s.productRepo.Create(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("product_id", p.ID).
		Str("status", string(p.Status)).
		Msg("product created")

	return s.productRepo.GetByID(ctx, p.ID)
}

// Update merges in onto the locked row, so the status rule sees the final entity.
func (s *productService) Update(ctx context.Context, id int64, in *model.ProductInput, partial bool) (*model.Product, error) {
	if err := s.check(in, partial); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		p, err := s.productRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		in.Apply(p)
		return s.productRepo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, id)
}

// Delete removes the product and its image rows, then the stored image objects.
func (s *productService) Delete(ctx context.Context, id int64) error {
	images, err := s.productRepo.ListImages(ctx, id)
	if err != nil {
		return err
	}

	err = withTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		return s.productRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	for _, img := range images {
		s.removeObject(ctx, img.Image)
	}

	s.logger.Info().Int64("product_id", id).Int("images", len(images)).Msg("product deleted")
	return nil
}

func (s *productService) Images(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.productRepo.ListImages(ctx, productID)
}

// AddImage stores the upload and records it. The object is removed again if the row cannot be written.
func (s *productService) AddImage(ctx context.Context, productID int64, upload *ImageUpload) (*model.ProductImage, error) {
	fields := map[string]string{}
	if len(upload.AltText) > 200 {
		fields["alt_text"] = "ensure this field has no more than 200 characters"
	}
	if upload.Order < 0 {
		fields["order"] = "ensure this value is greater than or equal to 0"
	}
	key, err := media.NewKey(productID, upload.ContentType)
	if err != nil {
		fields["image"] = "upload a valid image (jpeg, png, gif or webp)"
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	stored, err := s.store.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to store product image")
		return nil, err
	}

	img := &model.ProductImage{
		ProductID: productID,
		Image:     stored,
		AltText:   upload.AltText,
		IsPrimary: upload.IsPrimary,
		SortOrder: upload.Order,
	}
	err = withTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		return s.productRepo.CreateImage(ctx, tx, img)
	})
	if err != nil {
		s.removeObject(ctx, stored)
		return nil, err
	}

	s.logger.Info().Int64("product_id", productID).Int64("image_id", img.ID).Msg("product image added")
	return img, nil
}

func (s *productService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	var key string
	err := withTx(ctx, s.productRepo, s.logger, func(tx pgx.Tx) error {
		var err error
		key, err = s.productRepo.DeleteImage(ctx, tx, productID, imageID)
		return err
	})
	if err != nil {
		return err
	}

	s.removeObject(ctx, key)
	return nil
}

// removeObject deletes a stored object, logging rather than failing.
func (s *productService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to delete stored image")
	}
}

func (s *productService) check(in *model.ProductInput, partial bool) error {
	var required []string
	if !partial {
		required = in.Missing()
	}
	return validateInput(s.validate, in, required)
}
