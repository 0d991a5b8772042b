package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Thonzy/Inventory-App/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when no product matches the ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrNotOwner is returned when a caller touches someone else's product.
	ErrNotOwner = errors.New("user not authorized for this product")
)

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	CreateProduct(product models.Product) (models.Product, error)
	GetProductsForUser(userID string) ([]models.Product, error)
	GetProduct(id, userID string) (models.Product, error)
	UpdateProduct(id, userID string, update ProductUpdate) (models.Product, error)
	DeleteProduct(id, userID string) error
	GetLowStock(threshold int) ([]models.Product, error)
}

// ProductUpdate carries partial product mutations. Nil means unchanged;
// a nil Image keeps the existing attachment.
type ProductUpdate struct {
	Name        *string
	Category    *string
	Quantity    *int
	Price       *string
	Description *string
	Image       *models.ProductImage
}

// ProductService provides business logic for inventory items.
type ProductService struct {
	db *sql.DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

const productColumns = `id, user_id, name, sku, category, quantity, price, description,
	image_file_name, image_file_path, image_file_type, image_file_size, created_at, updated_at`

// CreateProduct persists a new product for its owner.
func (s *ProductService) CreateProduct(product models.Product) (models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.SKU == "" {
		product.SKU = "SKU"
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	stmt, err := s.db.Prepare(`
		INSERT INTO products (id, user_id, name, sku, category, quantity, price, description,
			image_file_name, image_file_path, image_file_type, image_file_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Product{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(product.ID, product.UserID, product.Name, product.SKU, product.Category,
		product.Quantity, product.Price, product.Description,
		product.Image.FileName, product.Image.FilePath, product.Image.FileType, product.Image.FileSize,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// GetProductsForUser retrieves all products owned by a user, newest first.
func (s *ProductService) GetProductsForUser(userID string) ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT `+productColumns+` FROM products
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanProducts(rows)
}

// GetProduct retrieves a single product, enforcing ownership.
func (s *ProductService) GetProduct(id, userID string) (models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	product, err := s.scanProduct(row)
	if err != nil {
		return models.Product{}, err
	}
	if product.UserID != userID {
		return models.Product{}, ErrNotOwner
	}
	return product, nil
}

// UpdateProduct applies a partial update to an owned product. The image
// is only replaced when the update carries a new one.
func (s *ProductService) UpdateProduct(id, userID string, update ProductUpdate) (models.Product, error) {
	product, err := s.GetProduct(id, userID)
	if err != nil {
		return models.Product{}, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Quantity != nil {
		product.Quantity = *update.Quantity
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Image != nil && !update.Image.Empty() {
		product.Image = *update.Image
	}
	product.UpdatedAt = time.Now().UTC()

	stmt, err := s.db.Prepare(`
		UPDATE products SET name = ?, category = ?, quantity = ?, price = ?, description = ?,
			image_file_name = ?, image_file_path = ?, image_file_type = ?, image_file_size = ?, updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return models.Product{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(product.Name, product.Category, product.Quantity, product.Price, product.Description,
		product.Image.FileName, product.Image.FilePath, product.Image.FileType, product.Image.FileSize,
		product.UpdatedAt, id)
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// DeleteProduct removes an owned product.
func (s *ProductService) DeleteProduct(id, userID string) error {
	if _, err := s.GetProduct(id, userID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	return err
}

// GetLowStock retrieves products with quantity under the threshold.
func (s *ProductService) GetLowStock(threshold int) ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT `+productColumns+` FROM products
		WHERE quantity < ? ORDER BY quantity ASC`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanProducts(rows)
}

// scanProducts is a helper to scan multiple rows into a slice of Products.
func (s *ProductService) scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		product, err := s.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// scanProduct is a helper to scan a single row into a Product struct.
func (s *ProductService) scanProduct(scanner interface{ Scan(...interface{}) error }) (models.Product, error) {
	var product models.Product
	err := scanner.Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.SKU,
		&product.Category,
		&product.Quantity,
		&product.Price,
		&product.Description,
		&product.Image.FileName,
		&product.Image.FilePath,
		&product.Image.FileType,
		&product.Image.FileSize,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}
