package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/serializer"
	"luxe-backoffice/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// stubURLs resolves image keys under a fixed media prefix.
type stubURLs struct{}

func (stubURLs) URL(key string) string { return "/media/" + key }

func newTestSerializer() *serializer.Serializer {
	return serializer.New(decimal.NewFromInt(3700), stubURLs{})
}

// serve routes req through a chi router holding only pattern.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.MethodFunc(method, pattern, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// MockCategoryService is a mock implementation of CategoryService.
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, params url.Values) ([]model.Category, query.Page, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, query.Page{}, args.Error(2)
	}
	return args.Get(0).([]model.Category), args.Get(1).(query.Page), args.Error(2)
}

func (m *MockCategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, id int64, in *model.CategoryInput, partial bool) (*model.Category, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) list(ctx context.Context, method string, params url.Values) ([]model.Product, query.Page, error) {
	args := m.MethodCalled(method, ctx, params)
	if args.Get(0) == nil {
		return nil, query.Page{}, args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Get(1).(query.Page), args.Error(2)
}

func (m *MockProductService) List(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return m.list(ctx, "List", params)
}

func (m *MockProductService) Featured(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return m.list(ctx, "Featured", params)
}

func (m *MockProductService) AdminList(ctx context.Context, params url.Values) ([]model.Product, query.Page, error) {
	return m.list(ctx, "AdminList", params)
}

func (m *MockProductService) Get(ctx context.Context, id int64, includeHidden bool) (*model.Product, error) {
	args := m.Called(ctx, id, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, in *model.ProductInput, partial bool) (*model.Product, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Images(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductImage), args.Error(1)
}

func (m *MockProductService) AddImage(ctx context.Context, productID int64, upload *service.ImageUpload) (*model.ProductImage, error) {
	args := m.Called(ctx, productID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductImage), args.Error(1)
}

func (m *MockProductService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	return m.Called(ctx, productID, imageID).Error(0)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) List(ctx context.Context, params url.Values) ([]model.Order, query.Page, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, query.Page{}, args.Error(2)
	}
	return args.Get(0).([]model.Order), args.Get(1).(query.Page), args.Error(2)
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, in *model.OrderInput) (*model.Order, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, id int64, in *model.OrderInput, partial bool) (*model.Order, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomerService is a mock implementation of CustomerService.
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) List(ctx context.Context, params url.Values) ([]model.Customer, query.Page, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, query.Page{}, args.Error(2)
	}
	return args.Get(0).([]model.Customer), args.Get(1).(query.Page), args.Error(2)
}

func (m *MockCustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, id int64, in *model.CustomerInput, partial bool) (*model.Customer, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockDeliveryService is a mock implementation of DeliveryService.
type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) List(ctx context.Context, params url.Values) ([]model.Delivery, query.Page, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, query.Page{}, args.Error(2)
	}
	return args.Get(0).([]model.Delivery), args.Get(1).(query.Page), args.Error(2)
}

func (m *MockDeliveryService) Get(ctx context.Context, id int64) (*model.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Delivery), args.Error(1)
}

func (m *MockDeliveryService) Create(ctx context.Context, in *model.DeliveryInput) (*model.Delivery, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Delivery), args.Error(1)
}

func (m *MockDeliveryService) Update(ctx context.Context, id int64, in *model.DeliveryInput, partial bool) (*model.Delivery, error) {
	args := m.Called(ctx, id, in, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Delivery), args.Error(1)
}

func (m *MockDeliveryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
