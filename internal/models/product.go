package models

import "time"

// Product represents a single inventory item owned by a user.
type Product struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Name        string       `json:"name"`
	SKU         string       `json:"sku"`
	Category    string       `json:"category"`
	Quantity    int          `json:"quantity"`
	Price       string       `json:"price"`
	Description string       `json:"description"`
	Image       ProductImage `json:"image"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ProductImage holds metadata for an uploaded product image.
type ProductImage struct {
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileSize string `json:"fileSize,omitempty"`
}

// Empty reports whether no image has been attached.
func (i ProductImage) Empty() bool {
	return i.FilePath == ""
}
