package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"luxe-backoffice/internal/middleware"
	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
	"luxe-backoffice/internal/serializer"
	"luxe-backoffice/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service        service.ProductService
	serializer     *serializer.Serializer
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewProductHandler creates a new product handler. Image uploads larger than
// maxUploadBytes are rejected.
func NewProductHandler(service service.ProductService, ser *serializer.Serializer, maxUploadBytes int64, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:        service,
		serializer:     ser,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products. Only publicly visible products are returned.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, page, err := h.service.List(r.Context(), r.URL.Query())
	h.writeList(w, r, products, page, err)
}

// Featured handles GET /api/products/featured.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, page, err := h.service.Featured(r.Context(), r.URL.Query())
	h.writeList(w, r, products, page, err)
}

// AdminList handles GET /api/products/admin_list.
func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	products, page, err := h.service.AdminList(r.Context(), r.URL.Query())
	h.writeList(w, r, products, page, err)
}

func (h *ProductHandler) writeList(w http.ResponseWriter, r *http.Request, products []model.Product, page query.Page, err error) {
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, serializer.NewList(products, page, h.serializer.Product))
}

// Get handles GET /api/products/{id}. Admins may read hidden products.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.service.Get(r.Context(), id, middleware.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.serializer.Product(p))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, h.serializer.Product(p))
}

// Update handles PUT and PATCH /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var in model.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.service.Update(r.Context(), id, &in, isPartial(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.serializer.Product(p))
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Images handles GET /api/products/{id}/images.
func (h *ProductHandler) Images(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	images, err := h.service.Images(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	out := make([]serializer.ProductImage, 0, len(images))
	for i := range images {
		out = append(out, h.serializer.ProductImage(&images[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// AddImage handles multipart POST /api/products/{id}/images with an "image" file part.
func (h *ProductHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, model.NewDomainError(model.ErrCodeTooLarge, "uploaded file is too large"), h.logger)
			return
		}
		writeError(w, r, model.FieldError("image", "no file was submitted"), h.logger)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, model.FieldError("image", "no file was submitted"), h.logger)
		return
	}
	defer file.Close()

	upload, err := newImageUpload(file, header, r.MultipartForm.Value)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	img, err := h.service.AddImage(r.Context(), id, upload)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, h.serializer.ProductImage(img))
}

// DeleteImage handles DELETE /api/products/{id}/images/{imageId}.
func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	imageID, err := parseID(r, "imageId")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteImage(r.Context(), id, imageID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// newImageUpload reads the form fields that accompany an image file. The
// content type is sniffed when the client did not declare a specific one.
func newImageUpload(file multipart.File, header *multipart.FileHeader, values map[string][]string) (*service.ImageUpload, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, model.FieldError("image", "could not read the uploaded file")
		}
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, model.FieldError("image", "could not read the uploaded file")
		}
	}

	upload := &service.ImageUpload{
		Body:        file,
		Size:        header.Size,
		ContentType: contentType,
		AltText:     formValue(values, "alt_text"),
	}

	fields := map[string]string{}
	if v := formValue(values, "is_primary"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fields["is_primary"] = "must be a valid boolean"
		}
		upload.IsPrimary = b
	}
	if v := formValue(values, "order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["order"] = "a valid integer is required"
		}
		upload.Order = n
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError(fields)
	}
	return upload, nil
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
