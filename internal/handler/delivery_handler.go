package handler

import (
	"net/http"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/serializer"
	"luxe-backoffice/internal/service"

	"github.com/rs/zerolog"
)

// DeliveryHandler handles delivery-related HTTP requests.
type DeliveryHandler struct {
	service    service.DeliveryService
	serializer *serializer.Serializer
	logger     zerolog.Logger
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(service service.DeliveryService, ser *serializer.Serializer, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		service:    service,
		serializer: ser,
		logger:     logger.With().Str("handler", "delivery").Logger(),
	}
}

// List handles GET /api/deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	deliveries, page, err := h.service.List(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, serializer.NewList(deliveries, page, h.serializer.Delivery))
}

// Get handles GET /api/deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.serializer.Delivery(d))
}

// Create handles POST /api/deliveries.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.DeliveryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	d, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, h.serializer.Delivery(d))
}

// Update handles PUT and PATCH /api/deliveries/{id}.
func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var in model.DeliveryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	d, err := h.service.Update(r.Context(), id, &in, isPartial(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.serializer.Delivery(d))
}

// Delete handles DELETE /api/deliveries/{id}.
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
