package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"luxe-backoffice/internal/admin"
	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/serializer"
	"luxe-backoffice/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the back-office console contract.
type AdminHandler struct {
	site       admin.SiteConfig
	registry   *admin.Registry
	products   service.ProductService
	serializer *serializer.Serializer
	logger     zerolog.Logger
}

// NewAdminHandler creates a new admin console handler.
func NewAdminHandler(
	site admin.SiteConfig,
	registry *admin.Registry,
	products service.ProductService,
	ser *serializer.Serializer,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		site:       site,
		registry:   registry,
		products:   products,
		serializer: ser,
		logger:     logger.With().Str("handler", "admin").Logger(),
	}
}

// SiteResponse is the console bootstrap document.
type SiteResponse struct {
	Site   admin.SiteConfig    `json:"site"`
	Models []*admin.ModelAdmin `json:"models"`
}

// Site handles GET /admin/site.
func (h *AdminHandler) Site(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SiteResponse{
		Site:   h.site,
		Models: h.registry.Models(),
	})
}

// EditProduct handles PATCH /admin/products/{id}, the list view inline edit.
// Only the product's list_editable fields may be sent.
func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var raw map[string]json.RawMessage
	if err := unmarshalBody(body, &raw); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	fields := make([]string, 0, len(raw))
	for k := range raw {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	ma, ok := h.registry.Get(admin.ProductModel)
	if !ok {
		writeError(w, r, model.NewDomainError(model.ErrCodeNotFound, "product admin is not registered"), h.logger)
		return
	}
	if err := ma.CheckEditable(fields); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var in model.ProductInput
	if err := unmarshalBody(body, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.products.Update(r.Context(), id, &in, true)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	h.logger.Info().Int64("product_id", id).Strs("fields", fields).Msg("product edited inline")
	writeJSON(w, http.StatusOK, h.serializer.Product(p))
}
