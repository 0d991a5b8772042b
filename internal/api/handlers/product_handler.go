package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Thonzy/Inventory-App/internal/auth"
	"github.com/Thonzy/Inventory-App/internal/models"
	"github.com/Thonzy/Inventory-App/internal/services"
	"github.com/Thonzy/Inventory-App/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxUploadSize caps multipart request memory.
const maxUploadSize = 10 << 20 // 10 MiB

// ProductHandler handles HTTP requests for inventory items.
type ProductHandler struct {
	products services.ProductServiceProvider
	events   services.EventServiceProvider
	uploader storage.Uploader // nil disables image uploads
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products services.ProductServiceProvider, events services.EventServiceProvider, uploader storage.Uploader) *ProductHandler {
	return &ProductHandler{products: products, events: events, uploader: uploader}
}

// Create handles product creation from a multipart form with an optional
// image file.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := r.FormValue("name")
	category := r.FormValue("category")
	quantityStr := r.FormValue("quantity")
	price := r.FormValue("price")
	description := r.FormValue("description")

	if name == "" || category == "" || quantityStr == "" || price == "" || description == "" {
		writeError(w, http.StatusBadRequest, "Please fill in all fields")
		return
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil || quantity < 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be a non-negative number")
		return
	}

	image, err := h.uploadImage(r)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Product image upload failed")
		writeError(w, http.StatusInternalServerError, "Image could not be uploaded")
		return
	}

	product := models.Product{
		UserID:      user.ID,
		Name:        name,
		SKU:         r.FormValue("sku"),
		Category:    category,
		Quantity:    quantity,
		Price:       price,
		Description: description,
	}
	if image != nil {
		product.Image = *image
	}

	created, err := h.products.CreateProduct(product)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create product")
		writeServiceError(w, err)
		return
	}

	h.events.CreateEvent("product.create", "info", fmt.Sprintf("Product '%s' added to inventory.", created.Name), &created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// GetAll returns the caller's products, newest first.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	products, err := h.products.GetProductsForUser(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list products")
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns a single owned product.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	product, err := h.products.GetProduct(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Update applies a partial update from a multipart form. The stored image
// is kept unless the request carries a new file.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var update services.ProductUpdate
	if v := r.FormValue("name"); v != "" {
		update.Name = &v
	}
	if v := r.FormValue("category"); v != "" {
		update.Category = &v
	}
	if v := r.FormValue("quantity"); v != "" {
		quantity, err := strconv.Atoi(v)
		if err != nil || quantity < 0 {
			writeError(w, http.StatusBadRequest, "Quantity must be a non-negative number")
			return
		}
		update.Quantity = &quantity
	}
	if v := r.FormValue("price"); v != "" {
		update.Price = &v
	}
	if v := r.FormValue("description"); v != "" {
		update.Description = &v
	}

	image, err := h.uploadImage(r)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Product image upload failed")
		writeError(w, http.StatusInternalServerError, "Image could not be uploaded")
		return
	}
	update.Image = image

	updated, err := h.products.UpdateProduct(chi.URLParam(r, "id"), user.ID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.events.CreateEvent("product.update", "info", fmt.Sprintf("Product '%s' updated.", updated.Name), &updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes an owned product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, please login")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.products.DeleteProduct(id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	h.events.CreateEvent("product.delete", "warn", "A product was removed from inventory.", &id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product has been removed."})
}

// uploadImage stores the "image" form file, if any, and returns its
// metadata. Returns (nil, nil) when the request carries no file.
func (h *ProductHandler) uploadImage(r *http.Request) (*models.ProductImage, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	if h.uploader == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	contentType := header.Header.Get("Content-Type")
	key := "Inventory-App/" + uuid.New().String() + filepath.Ext(header.Filename)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	url, err := h.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, err
	}

	return &models.ProductImage{
		FileName: header.Filename,
		FilePath: url,
		FileType: contentType,
		FileSize: formatFileSize(header.Size),
	}, nil
}

// formatFileSize renders a byte count as a human-readable string.
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(size)/float64(div), "KMGT"[exp])
}
