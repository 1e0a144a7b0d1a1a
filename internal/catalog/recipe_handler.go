package catalog

import (
	"strconv"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"
	"siparis-backend/internal/recipecache"

	"github.com/gofiber/fiber/v2"
)

type CreateRecipeItemRequest struct {
	ProductID    uint  `json:"product_id"`
	IngredientID uint  `json:"ingredient_id"`
	Quantity     int64 `json:"quantity"` // consumed per ordered unit
}

type RecipeItemResponse struct {
	ID           uint  `json:"id"`
	ProductID    uint  `json:"product_id"`
	IngredientID uint  `json:"ingredient_id"`
	Quantity     int64 `json:"quantity"`
}

// POST /api/admin/recipes
// Creating a recipe line writes the product's recipe through to the fast
// cache store, so the cache follows authoritative changes instead of waiting
// for a side operation.
func CreateRecipeItemHandler(cache *recipecache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "product not found")
		}
		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient not found")
		}

		item := models.RecipeItem{
			ProductID:    body.ProductID,
			IngredientID: body.IngredientID,
			Quantity:     body.Quantity,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "recipe line could not be created (duplicate ingredient?)")
		}

		// Authoritative row is committed; if the populate fails the cache
		// simply falls back until the next successful write-through.
		_ = cache.Populate(c.Context(), body.ProductID)

		return c.Status(fiber.StatusCreated).JSON(RecipeItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
		})
	}
}

// GET /api/products/:id/recipe
func GetRecipeHandler(cache *recipecache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
		}

		entries, err := cache.Entries(c.Context(), uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "recipe could not be loaded")
		}

		return c.JSON(fiber.Map{
			"product_id":  id,
			"ingredients": entries,
		})
	}
}
