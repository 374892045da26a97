package serializer

import (
	"encoding/json"
	"testing"
	"time"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixURLs string

func (p prefixURLs) URL(key string) string { return string(p) + key }

func newTestSerializer() *Serializer {
	return New(decimal.NewFromInt(3700), prefixURLs("/media/"))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "10.00", Money(decimal.NewFromInt(10)))
	assert.Equal(t, "0.10", Money(decimal.RequireFromString("0.1")))
	assert.Equal(t, "99.99", Money(decimal.RequireFromString("99.994")))
}

func TestSerializer_Convert(t *testing.T) {
	s := newTestSerializer()

	assert.Equal(t, int64(370000), s.Convert(decimal.NewFromInt(100)))
	assert.Equal(t, int64(36963), s.Convert(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(1850), s.Convert(decimal.RequireFromString("0.50")))
}

func TestSerializer_Product(t *testing.T) {
	s := newTestSerializer()
	p := model.NewProduct()
	p.ID = 7
	p.Name = "Silk Dress"
	p.CategoryID = 2
	p.CategoryName = "Women"
	p.Price = decimal.RequireFromString("120")
	p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("99.5"))
	p.Images = []model.ProductImage{{ID: 1, Image: "products/a.jpg", IsPrimary: true, SortOrder: 3}}

	out := s.Product(p)

	assert.Equal(t, "120.00", out.Price)
	assert.Equal(t, int64(444000), out.PriceUGX)
	require.NotNil(t, out.DiscountPrice)
	assert.Equal(t, "99.50", *out.DiscountPrice)
	require.NotNil(t, out.DiscountPriceUGX)
	assert.Equal(t, int64(368150), *out.DiscountPriceUGX)
	assert.Nil(t, out.Weight)
	assert.Equal(t, "Women", out.CategoryName)
	require.Len(t, out.Images, 1)
	assert.Equal(t, "/media/products/a.jpg", out.Images[0].Image)
	assert.Equal(t, 3, out.Images[0].Order)

	body, err := json.Marshal(out)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, map[string]interface{}{}, raw["specifications"])
	assert.Equal(t, []interface{}{}, raw["sizes"])
	assert.Nil(t, raw["height"])
	assert.Contains(t, raw, "discount_price_ugx")
}

func TestSerializer_Product_NoDiscount(t *testing.T) {
	s := newTestSerializer()
	p := &model.Product{Price: decimal.NewFromInt(10)}

	out := s.Product(p)

	assert.Nil(t, out.DiscountPrice)
	assert.Nil(t, out.DiscountPriceUGX)
	assert.JSONEq(t, `{}`, string(out.Specifications))
	assert.NotNil(t, out.Images)
	assert.NotNil(t, out.Tags)
}

func TestSerializer_Customer(t *testing.T) {
	s := newTestSerializer()

	out := s.Customer(&model.Customer{ID: 1, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"})

	assert.Equal(t, "Jane Doe", out.FullName)
}

func TestSerializer_Order(t *testing.T) {
	s := newTestSerializer()
	o := &model.Order{
		ID:            1,
		OrderNumber:   "ORD-ABCDEF12",
		CustomerID:    4,
		CustomerFirst: "Jane",
		CustomerLast:  "Doe",
		Status:        model.OrderPending,
		Items: []model.OrderItem{
			{ID: 1, ProductID: 10, ProductName: "Scarf", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{ID: 2, ProductID: 11, ProductName: "Belt", Quantity: 1, Price: decimal.RequireFromString("5.00")},
		},
	}
	o.RecalculateTotal()

	out := s.Order(o)

	assert.Equal(t, "Jane Doe", out.CustomerName)
	assert.Equal(t, int64(4), out.Customer)
	assert.Equal(t, "25.00", out.TotalAmount)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "20.00", out.Items[0].TotalPrice)
	assert.Equal(t, "5.00", out.Items[1].TotalPrice)
	assert.Equal(t, "0.00", out.ShippingCost)
}

func TestSerializer_Delivery(t *testing.T) {
	s := newTestSerializer()
	eta := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	out := s.Delivery(&model.Delivery{
		ID: 1, OrderID: 2, OrderNumber: "ORD-1", CustomerFirst: "Jane", CustomerLast: "Doe",
		Status: model.DeliveryInTransit, EstimatedDelivery: &eta,
	})

	assert.Equal(t, "Jane Doe", out.CustomerName)
	assert.Equal(t, "in_transit", out.Status)
	assert.Equal(t, &eta, out.EstimatedDelivery)
}

func TestNewList(t *testing.T) {
	s := newTestSerializer()
	categories := []model.Category{{ID: 1, Name: "Women", Slug: "women"}, {ID: 2, Name: "Men", Slug: "men"}}
	page := query.Page{Page: 1, Limit: 20, TotalItems: 2, TotalPages: 1}

	list := NewList(categories, page, s.Category)

	require.Len(t, list.Data, 2)
	assert.Equal(t, "women", list.Data[0].Slug)

	body, err := json.Marshal(NewList([]model.Category{}, query.Page{Page: 1, Limit: 20}, s.Category))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":20,"total_items":0,"total_pages":0}}`, string(body))
}
