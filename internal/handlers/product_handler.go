package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Reads are open to any authenticated user; writes are admin only. The admin
// gate is attached per route: a group-level handler would be mounted as
// prefix middleware and swallow every later /products/... route, including
// the review routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	admin := middleware.AdminRequired()
	productRoutes.Post("/", admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", admin, h.HandleDeleteProduct)
	productRoutes.Post("/:id/discontinue", admin, h.HandleDiscontinueProduct)
	productRoutes.Post("/:id/images", admin, h.HandleAddImage)
	productRoutes.Post("/:id/variants", admin, h.HandleAddVariant)
	productRoutes.Post("/:id/specifications", admin, h.HandleAddSpecification)
}

// HandleListProducts retrieves products, optionally filtered by the
// category and status query parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID: c.Query("category"),
		Status:     models.ProductStatus(c.Query("status")),
	}
	products, err := h.service.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a product with images, variants and
// specifications.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product %s: %v", id, err)
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product's own fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")
	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// HandleDeleteProduct hard-deletes an unreferenced product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// HandleDiscontinueProduct soft-deletes a product by status flip.
func (h *ProductHandler) HandleDiscontinueProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DiscontinueProduct(id); err != nil {
		log.Printf("Error discontinuing product %s: %v", id, err)
		return respondError(c, "Could not discontinue product", err)
	}
	return c.JSON(fiber.Map{"message": "Product discontinued successfully"})
}

// HandleAddImage attaches an image to a product.
func (h *ProductHandler) HandleAddImage(c *fiber.Ctx) error {
	var image models.ProductImage
	if err := c.BodyParser(&image); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	image.ProductID = c.Params("id")
	if err := h.validate.Struct(image); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.AddImage(&image); err != nil {
		log.Printf("Error adding image to product %s: %v", image.ProductID, err)
		return respondError(c, "Could not add product image", err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleAddVariant attaches a variant to a product.
func (h *ProductHandler) HandleAddVariant(c *fiber.Ctx) error {
	var variant models.ProductVariant
	if err := c.BodyParser(&variant); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	variant.ProductID = c.Params("id")
	if err := h.validate.Struct(variant); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.AddVariant(&variant); err != nil {
		log.Printf("Error adding variant to product %s: %v", variant.ProductID, err)
		return respondError(c, "Could not add product variant", err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// HandleAddSpecification attaches a key/value specification to a product.
func (h *ProductHandler) HandleAddSpecification(c *fiber.Ctx) error {
	var spec models.ProductSpecification
	if err := c.BodyParser(&spec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	spec.ProductID = c.Params("id")
	if err := h.validate.Struct(spec); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.AddSpecification(&spec); err != nil {
		log.Printf("Error adding specification to product %s: %v", spec.ProductID, err)
		return respondError(c, "Could not add product specification", err)
	}
	return c.Status(fiber.StatusCreated).JSON(spec)
}
