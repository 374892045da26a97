package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"luxe-backoffice/internal/middleware"
	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProduct() *model.Product {
	p := model.NewProduct()
	p.ID = 7
	p.Name = "Silk Scarf"
	p.Brand = "Hermes"
	p.CategoryID = 2
	p.CategoryName = "Accessories"
	p.Price = decimal.RequireFromString("120.5")
	p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("99"))
	p.Status = model.StatusPublished
	p.IsActive = true
	p.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	p.Images = []model.ProductImage{{ID: 1, ProductID: 7, Image: "products/a.jpg", IsPrimary: true}}
	return p
}

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		mockReturn     []model.Product
		mockPage       query.Page
		mockErr        error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "public list",
			method:         "List",
			target:         "/api/products?brand=Hermes&page=2",
			mockReturn:     []model.Product{*testProduct()},
			mockPage:       query.Page{Page: 2, Limit: 20, TotalItems: 21, TotalPages: 2},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "featured",
			method:         "Featured",
			target:         "/api/products/featured",
			mockReturn:     []model.Product{},
			mockPage:       query.Page{Page: 1, Limit: 20},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "admin list",
			method:         "AdminList",
			target:         "/api/products/admin_list",
			mockReturn:     []model.Product{*testProduct()},
			mockPage:       query.Page{Page: 1, Limit: 20, TotalItems: 1, TotalPages: 1},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid query",
			method:         "List",
			target:         "/api/products?ordering=secret",
			mockErr:        model.NewDomainError(model.ErrCodeInvalidQuery, "invalid ordering field"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			params := req.URL.Query()
			if tt.mockErr != nil {
				svc.On(tt.method, mock.Anything, params).Return(nil, query.Page{}, tt.mockErr)
			} else {
				svc.On(tt.method, mock.Anything, params).Return(tt.mockReturn, tt.mockPage, nil)
			}

			handlers := map[string]http.HandlerFunc{"List": h.List, "Featured": h.Featured, "AdminList": h.AdminList}
			path := strings.SplitN(tt.target, "?", 2)[0]
			w := serve(http.MethodGet, path, handlers[tt.method], req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
				assert.NotEmpty(t, resp.CorrelationID)
			} else {
				var resp struct {
					Data       []map[string]interface{} `json:"data"`
					Pagination query.Page               `json:"pagination"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Len(t, resp.Data, len(tt.mockReturn))
				assert.Equal(t, tt.mockPage, resp.Pagination)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_ListRepresentation(t *testing.T) {
	svc := new(MockProductService)
	h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
	svc.On("List", mock.Anything, url.Values{}).
		Return([]model.Product{*testProduct()}, query.Page{Page: 1, Limit: 20, TotalItems: 1, TotalPages: 1}, nil)

	w := serve(http.MethodGet, "/api/products", h.List, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	p := resp.Data[0]
	assert.Equal(t, "120.50", p["price"])
	assert.Equal(t, float64(445850), p["price_ugx"])
	assert.Equal(t, "99.00", p["discount_price"])
	assert.Equal(t, "Accessories", p["category_name"])
	assert.Equal(t, float64(2), p["category"])
	images := p["images"].([]interface{})
	require.Len(t, images, 1)
	assert.Equal(t, "/media/products/a.jpg", images[0].(map[string]interface{})["image"])
}

func TestProductHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		principal      *middleware.Principal
		target         string
		includeHidden  bool
		mockErr        error
		expectedStatus int
	}{
		{name: "anonymous sees visible only", target: "/api/products/7", expectedStatus: http.StatusOK},
		{name: "admin sees hidden", principal: &middleware.Principal{Subject: "ops", Role: middleware.RoleAdmin}, target: "/api/products/7", includeHidden: true, expectedStatus: http.StatusOK},
		{name: "staff is not admin", principal: &middleware.Principal{Subject: "clerk", Role: "staff"}, target: "/api/products/7", expectedStatus: http.StatusOK},
		{name: "hidden product is not found", target: "/api/products/7", mockErr: model.NotFound("product", 7), expectedStatus: http.StatusNotFound},
		{name: "invalid id", target: "/api/products/abc", expectedStatus: http.StatusNotFound},
		{name: "zero id", target: "/api/products/0", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
			if tt.mockErr != nil {
				svc.On("Get", mock.Anything, int64(7), tt.includeHidden).Return(nil, tt.mockErr)
			} else {
				svc.On("Get", mock.Anything, int64(7), tt.includeHidden).Return(testProduct(), nil).Maybe()
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.principal != nil {
				req = req.WithContext(middleware.WithPrincipal(req.Context(), tt.principal))
			}
			w := serve(http.MethodGet, "/api/products/{id}", h.Get, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in *model.ProductInput) bool {
			return in.Name != nil && *in.Name == "Silk Scarf" && in.Price != nil && in.Price.Equal(decimal.RequireFromString("120.50"))
		})).Return(testProduct(), nil)

		body := `{"name":"Silk Scarf","brand":"Hermes","category":2,"price":"120.50","description":"Printed silk"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		svc.AssertExpectations(t)
	})

	t.Run("validation error carries fields", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError(map[string]string{"price": "this field is required"}))

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Scarf"}`))
		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeValidation, resp.Error)
		assert.Equal(t, "this field is required", resp.Fields["price"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":`))
		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("wrong field type", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"stock_quantity":"many"}`))
		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeValidation, resp.Error)
		assert.Contains(t, resp.Fields, "stock_quantity")
	})

	t.Run("unexpected error is masked", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset by peer"))

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Scarf"}`))
		w := serve(http.MethodPost, "/api/products", h.Create, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInternalError, resp.Error)
		assert.NotEmpty(t, resp.CorrelationID)
	})
}

func TestProductHandler_Update(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		partial bool
	}{
		{name: "PUT is a full update", method: http.MethodPut, partial: false},
		{name: "PATCH is partial", method: http.MethodPatch, partial: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
			svc.On("Update", mock.Anything, int64(7), mock.Anything, tt.partial).Return(testProduct(), nil)

			req := httptest.NewRequest(tt.method, "/api/products/7", strings.NewReader(`{"status":"published"}`))
			w := serve(tt.method, "/api/products/{id}", h.Update, req)

			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		mockErr        error
		expectedStatus int
	}{
		{name: "deleted", expectedStatus: http.StatusNoContent},
		{name: "referenced by orders", mockErr: model.Conflict("product is referenced by existing orders"), expectedStatus: http.StatusConflict},
		{name: "missing", mockErr: model.NotFound("product", 7), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
			svc.On("Delete", mock.Anything, int64(7)).Return(tt.mockErr)

			req := httptest.NewRequest(http.MethodDelete, "/api/products/7", nil)
			w := serve(http.MethodDelete, "/api/products/{id}", h.Delete, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Images(t *testing.T) {
	svc := new(MockProductService)
	h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
	svc.On("Images", mock.Anything, int64(7)).Return([]model.ProductImage{
		{ID: 1, Image: "products/a.jpg", IsPrimary: true},
		{ID: 2, Image: "products/b.jpg", SortOrder: 1},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/7/images", nil)
	w := serve(http.MethodGet, "/api/products/{id}/images", h.Images, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "/media/products/b.jpg", resp[1]["image"])
	assert.Equal(t, float64(1), resp[1]["order"])
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "scarf.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var pngHeader = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestProductHandler_AddImage(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		svc := new(MockProductService)
		h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
		svc.On("AddImage", mock.Anything, int64(7), mock.MatchedBy(func(u *service.ImageUpload) bool {
			return u.ContentType == "image/png" && u.AltText == "front" && u.IsPrimary && u.Order == 2 && u.Size == int64(len(pngHeader))
		})).Return(&model.ProductImage{ID: 3, ProductID: 7, Image: "products/7/x.png", AltText: "front", IsPrimary: true, SortOrder: 2}, nil)

		body, contentType := multipartBody(t, map[string]string{"alt_text": "front", "is_primary": "true", "order": "2"}, pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/products/7/images", body)
		req.Header.Set("Content-Type", contentType)
		w := serve(http.MethodPost, "/api/products/{id}/images", h.AddImage, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/media/products/7/x.png", resp["image"])
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name           string
		fields         map[string]string
		file           []byte
		maxBytes       int64
		expectedStatus int
		expectedField  string
	}{
		{name: "no file", fields: map[string]string{"alt_text": "front"}, maxBytes: 1 << 20, expectedStatus: http.StatusBadRequest, expectedField: "image"},
		{name: "bad order", fields: map[string]string{"order": "first"}, file: pngHeader, maxBytes: 1 << 20, expectedStatus: http.StatusBadRequest, expectedField: "order"},
		{name: "bad is_primary", fields: map[string]string{"is_primary": "perhaps"}, file: pngHeader, maxBytes: 1 << 20, expectedStatus: http.StatusBadRequest, expectedField: "is_primary"},
		{name: "too large", file: make([]byte, 4096), maxBytes: 512, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			h := NewProductHandler(svc, newTestSerializer(), tt.maxBytes, zerolog.Nop())

			body, contentType := multipartBody(t, tt.fields, tt.file)
			req := httptest.NewRequest(http.MethodPost, "/api/products/7/images", body)
			req.Header.Set("Content-Type", contentType)
			w := serve(http.MethodPost, "/api/products/{id}/images", h.AddImage, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedField != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Contains(t, resp.Fields, tt.expectedField)
			}
			svc.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProductHandler_DeleteImage(t *testing.T) {
	svc := new(MockProductService)
	h := NewProductHandler(svc, newTestSerializer(), 1<<20, zerolog.Nop())
	svc.On("DeleteImage", mock.Anything, int64(7), int64(3)).Return(nil)
	svc.On("DeleteImage", mock.Anything, int64(7), int64(4)).Return(model.NotFound("product image", 4))

	w := serve(http.MethodDelete, "/api/products/{id}/images/{imageId}", h.DeleteImage,
		httptest.NewRequest(http.MethodDelete, "/api/products/7/images/3", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(http.MethodDelete, "/api/products/{id}/images/{imageId}", h.DeleteImage,
		httptest.NewRequest(http.MethodDelete, "/api/products/7/images/4", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}
