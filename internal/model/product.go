package model

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the publication state of a product.
type ProductStatus string

// Product statuses
const (
	StatusDraft     ProductStatus = "draft"
	StatusPublished ProductStatus = "published"
	StatusHidden    ProductStatus = "hidden"
)

// ProductVisibility controls whether a published product is listed publicly.
type ProductVisibility string

// Product visibilities
const (
	VisibilityPublic  ProductVisibility = "public"
	VisibilityPrivate ProductVisibility = "private"
)

// Product represents a catalogue item.
type Product struct {
	ID             int64
	Name           string
	Brand          string
	CategoryID     int64
	CategoryName   string
	Price          decimal.Decimal
	DiscountPrice  decimal.NullDecimal
	Description    string
	Specifications json.RawMessage
	Sizes          []string
	Colors         []string
	Tags           []string
	StockQuantity  int
	IsActive       bool
	Featured       bool
	Status         ProductStatus
	Visibility     ProductVisibility
	VideoURL       string
	Weight         decimal.NullDecimal
	Length         decimal.NullDecimal
	Width          decimal.NullDecimal
	Height         decimal.NullDecimal
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Images []ProductImage
}

// NewProduct returns a product carrying the column defaults.
func NewProduct() *Product {
	return &Product{
		Specifications: json.RawMessage("{}"),
		Sizes:          []string{},
		Colors:         []string{},
		Tags:           []string{},
		Status:         StatusDraft,
		Visibility:     VisibilityPublic,
	}
}

// ApplyStatusRule forces IsActive to agree with Status.
func (p *Product) ApplyStatusRule() {
	switch p.Status {
	case StatusPublished:
		p.IsActive = true
	case StatusDraft, StatusHidden:
		p.IsActive = false
	}
}

// IsPubliclyVisible reports whether the product passes the public listing policy.
func (p *Product) IsPubliclyVisible() bool {
	return p.Status == StatusPublished && p.Visibility == VisibilityPublic && p.IsActive
}

// EffectivePrice is the discount price when set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// ProductInput is the write payload for products. Nil fields are left untouched.
type ProductInput struct {
	Name           *string                   `json:"name" validate:"omitempty,max=200"`
	Brand          *string                   `json:"brand" validate:"omitempty,max=100"`
	Category       *int64                    `json:"category" validate:"omitempty,gt=0"`
	Price          *decimal.Decimal          `json:"price"`
	DiscountPrice  Nullable[decimal.Decimal] `json:"discount_price,omitzero"`
	Description    *string                   `json:"description"`
	Specifications *json.RawMessage          `json:"specifications"`
	Sizes          *[]string                 `json:"sizes" validate:"omitempty,dive,max=20"`
	Colors         *[]string                 `json:"colors" validate:"omitempty,dive,max=50"`
	Tags           *[]string                 `json:"tags" validate:"omitempty,dive,max=50"`
	StockQuantity  *int                      `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsActive       *bool                     `json:"is_active"`
	Featured       *bool                     `json:"featured"`
	Status         *string                   `json:"status" validate:"omitempty,oneof=draft published hidden"`
	Visibility     *string                   `json:"visibility" validate:"omitempty,oneof=public private"`
	VideoURL       *string                   `json:"video_url" validate:"omitempty,max=500"`
	Weight         Nullable[decimal.Decimal] `json:"weight,omitzero"`
	Length         Nullable[decimal.Decimal] `json:"length,omitzero"`
	Width          Nullable[decimal.Decimal] `json:"width,omitzero"`
	Height         Nullable[decimal.Decimal] `json:"height,omitzero"`
}

// Missing lists required fields absent from a full write.
func (in *ProductInput) Missing() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Brand == nil || strings.TrimSpace(*in.Brand) == "" {
		missing = append(missing, "brand")
	}
	if in.Category == nil {
		missing = append(missing, "category")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

// Check validates rules the struct tags cannot express.
func (in *ProductInput) Check() map[string]string {
	fields := map[string]string{}
	checkNotBlank(fields, "name", in.Name)
	checkNotBlank(fields, "brand", in.Brand)
	if in.VideoURL != nil && *in.VideoURL != "" {
		if u, err := url.ParseRequestURI(*in.VideoURL); err != nil || u.Host == "" {
			fields["video_url"] = "must be a valid URL"
		}
	}
	if in.Price != nil {
		checkAmount(fields, "price", *in.Price, moneyDigits)
	}
	checkNullAmount(fields, "discount_price", in.DiscountPrice, moneyDigits)
	checkNullAmount(fields, "weight", in.Weight, measureDigits)
	checkNullAmount(fields, "length", in.Length, measureDigits)
	checkNullAmount(fields, "width", in.Width, measureDigits)
	checkNullAmount(fields, "height", in.Height, measureDigits)
	if in.Specifications != nil {
		// null decodes into a nil map without error
		var v map[string]interface{}
		if err := json.Unmarshal(*in.Specifications, &v); err != nil || v == nil {
			fields["specifications"] = "must be a JSON object"
		}
	}
	return fields
}

// Column widths of the NUMERIC(digits, 2) decimal columns.
const (
	moneyDigits   = 12
	measureDigits = 10
)

// checkAmount validates v against a NUMERIC(digits, 2) column.
func checkAmount(fields map[string]string, name string, v decimal.Decimal, digits int32) {
	switch {
	case v.IsNegative():
		fields[name] = "must be greater than or equal to 0"
	case !v.Equal(v.Round(2)):
		fields[name] = "ensure that there are no more than 2 decimal places"
	case v.GreaterThanOrEqual(decimal.New(1, digits-2)):
		fields[name] = "ensure that there are no more than " + strconv.Itoa(int(digits)) + " digits in total"
	}
}

func checkNotBlank(fields map[string]string, name string, v *string) {
	if v != nil && strings.TrimSpace(*v) == "" {
		fields[name] = "may not be blank"
	}
}

func checkNullAmount(fields map[string]string, name string, v Nullable[decimal.Decimal], digits int32) {
	if v.Valid {
		checkAmount(fields, name, v.Value, digits)
	}
}

// Apply copies the provided fields onto p. The status rule is applied afterwards.
func (in *ProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Category != nil {
		p.CategoryID = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	applyNullDecimal(&p.DiscountPrice, in.DiscountPrice)
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Specifications != nil {
		p.Specifications = *in.Specifications
	}
	if in.Sizes != nil {
		p.Sizes = NormalizeSet(*in.Sizes)
	}
	if in.Colors != nil {
		p.Colors = NormalizeSet(*in.Colors)
	}
	if in.Tags != nil {
		p.Tags = NormalizeSet(*in.Tags)
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Status != nil {
		p.Status = ProductStatus(*in.Status)
	}
	if in.Visibility != nil {
		p.Visibility = ProductVisibility(*in.Visibility)
	}
	if in.VideoURL != nil {
		p.VideoURL = *in.VideoURL
	}
	applyNullDecimal(&p.Weight, in.Weight)
	applyNullDecimal(&p.Length, in.Length)
	applyNullDecimal(&p.Width, in.Width)
	applyNullDecimal(&p.Height, in.Height)

	p.ApplyStatusRule()
}

func applyNullDecimal(dst *decimal.NullDecimal, v Nullable[decimal.Decimal]) {
	if !v.Set {
		return
	}
	*dst = decimal.NullDecimal{Decimal: v.Value, Valid: v.Valid}
}

// NormalizeSet trims values, drops empties and removes duplicates, keeping first occurrence order.
func NormalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
