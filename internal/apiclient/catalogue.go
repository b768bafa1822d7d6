package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/tajious/visitdesk/internal/models"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  int     `json:"category_id"`
}

type ProductImage struct {
	ProductID int
	Name      string
	Color     string
	Filename  string
	Data      []byte
}

// ListCategories answer: {"categories": [...]}.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/categories/", nil, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[models.Category](raw, "categories", "results")
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (int, error) {
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/categories/", in, &raw); err != nil {
		return 0, err
	}
	return createdID(raw, "category_id"), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

// ListProducts answer: {"products": [...]}.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/products/", nil, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[models.Product](raw, "products", "results")
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (int, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/products/", in, &raw); err != nil {
		return 0, err
	}
	return createdID(raw, "product_id"), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// UploadProductImage attaches an image to an existing product as multipart form data.
func (c *Client) UploadProductImage(ctx context.Context, img ProductImage) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "image"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(img.Data); err != nil {
		return err
	}

	name := img.Name
	if name == "" {
		name = "default-image"
	}
	fields := map[string]string{
		"name":       name,
		"product_id": strconv.Itoa(img.ProductID),
	}
	if img.Color != "" {
		fields["color"] = img.Color
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	return c.send(ctx, http.MethodPost, "/images/upload", mw.FormDataContentType(), &buf, nil)
}
