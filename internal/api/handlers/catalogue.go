package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/reconcile"
	"github.com/tajious/visitdesk/internal/validation"
)

const maxImageSize = 5 << 20

var errUnknownCategory = errors.New("Unknown category")

type CatalogueHandler struct {
	base
}

func NewCatalogueHandler(auth *middleware.AuthMiddleware) *CatalogueHandler {
	return &CatalogueHandler{base: base{auth: auth}}
}

func (h *CatalogueHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := middleware.ViewsFrom(c).Categories.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

func (h *CatalogueHandler) CreateCategory(c *fiber.Ctx) error {
	var form validation.CategoryForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	in := apiclient.CategoryInput{
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Status:      form.Status,
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}

	category, err := middleware.ViewsFrom(c).Categories.Append(c.UserContext(),
		func(ctx context.Context) (int, error) { return client.CreateCategory(ctx, in) },
		func(id int) models.Category {
			return models.Category{ID: id, Name: in.Name, Description: in.Description, Status: in.Status}
		})
	if err != nil {
		return h.fail(c, err, "create categories")
	}
	return h.created(c, category, nil, "")
}

func (h *CatalogueHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Categories.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteCategory(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this category")
	}
	return message(c, "Category deleted successfully")
}

func (h *CatalogueHandler) ListProducts(c *fiber.Ctx) error {
	products, err := middleware.ViewsFrom(c).Products.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view products")
	}
	return c.JSON(fiber.Map{"products": products})
}

// CreateProduct accepts JSON or a multipart form with an optional "image"
// file. The category is given by name and resolved to its id first. An image
// that fails to upload does not undo the product.
func (h *CatalogueHandler) CreateProduct(c *fiber.Ctx) error {
	var form validation.ProductForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	image, err := formImage(c)
	if err != nil {
		return badRequest(c, err)
	}

	set := middleware.ViewsFrom(c)
	client := middleware.ClientFrom(c)

	categories, err := set.Categories.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view categories")
	}
	categoryID, ok := models.CategoryIDByName(categories, form.Category)
	if !ok {
		return badRequest(c, errUnknownCategory)
	}

	in := apiclient.ProductInput{
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Price:       form.Price,
		CategoryID:  categoryID,
	}
	var upload func(ctx context.Context, id int) error
	if image != nil {
		upload = func(ctx context.Context, id int) error {
			image.ProductID = id
			image.Name = form.ImageName
			image.Color = form.ImageColor
			return client.UploadProductImage(ctx, *image)
		}
	}

	product, err := set.Products.AppendThen(c.UserContext(),
		func(ctx context.Context) (int, error) { return client.CreateProduct(ctx, in) },
		func(id int) models.Product {
			return models.Product{
				ID:          id,
				Name:        in.Name,
				Description: in.Description,
				Price:       in.Price,
				CategoryID:  categoryID,
				Status:      models.StatusActive,
			}
		},
		upload)
	var partial *reconcile.PartialError
	if err != nil && !errors.As(err, &partial) {
		return h.fail(c, err, "create products")
	}
	return h.created(c, product, err, "Image upload")
}

func (h *CatalogueHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Products.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteProduct(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this product")
	}
	return message(c, "Product deleted successfully")
}

// formImage reads the optional "image" file of a multipart request.
func formImage(c *fiber.Ctx) (*apiclient.ProductImage, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	if fh.Size > maxImageSize {
		return nil, errors.New("Image is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errInvalidBody
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errInvalidBody
	}
	return &apiclient.ProductImage{Filename: fh.Filename, Data: data}, nil
}
