package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:productID/reviews", h.HandleListReviews)
	router.Post("/products/:productID/reviews", h.HandleCreateReview)
	router.Get("/reviews/:id", h.HandleGetReviewByID)
	router.Delete("/reviews/:id", h.HandleDeleteReview)
}

// HandleListReviews retrieves all reviews of a product.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	productID := c.Params("productID")
	reviews, err := h.service.ListReviewsByProduct(productID)
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", productID, err)
		return respondError(c, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}

// HandleCreateReview records the user's rating of a product.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	review.ProductID = c.Params("productID")
	review.UserID = middleware.UserID(c)
	if err := h.validate.Struct(review); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateReview(&review); err != nil {
		log.Printf("Error creating review: %v", err)
		return respondError(c, "Could not create review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleGetReviewByID retrieves a single review with its images.
func (h *ReviewHandler) HandleGetReviewByID(c *fiber.Ctx) error {
	id := c.Params("id")
	review, err := h.service.GetReviewByID(id)
	if err != nil {
		log.Printf("Error getting review %s: %v", id, err)
		return respondError(c, "Could not retrieve review", err)
	}
	return c.JSON(review)
}

// HandleDeleteReview removes a review. Authors delete their own; admins any.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteReview(id, middleware.UserID(c), middleware.UserRole(c)); err != nil {
		log.Printf("Error deleting review %s: %v", id, err)
		return respondError(c, "Could not delete review", err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
