package catalog

import (
	"errors"
	"strconv"
	"strings"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"
	"siparis-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type IngredientResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Stock             int64  `json:"stock"`
	Remaining         int64  `json:"remaining"`
	LowStockAlertSent bool   `json:"low_stock_alert_sent"`
}

type CreateIngredientRequest struct {
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type RestockIngredientRequest struct {
	Stock int64 `json:"stock"`
}

func toIngredientResponse(ing *models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:                ing.ID,
		Name:              ing.Name,
		Stock:             ing.Stock,
		Remaining:         ing.Remaining,
		LowStockAlertSent: ing.LowStockAlertSent,
	}
}

// GET /api/admin/ingredients
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ingredients []models.Ingredient
		if err := database.DB.Order("name asc").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ingredients could not be listed")
		}

		res := make([]IngredientResponse, 0, len(ingredients))
		for i := range ingredients {
			res = append(res, toIngredientResponse(&ingredients[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/ingredients
// A new ingredient starts with remaining == stock.
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
		}

		ing := models.Ingredient{
			Name:      body.Name,
			Stock:     body.Stock,
			Remaining: body.Stock,
		}
		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ingredient could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toIngredientResponse(&ing))
	}
}

// PUT /api/admin/ingredients/:id/restock
// Resets stock and remaining to the new baseline and clears the low-stock
// alert flag, opening a new alert episode.
func RestockIngredientHandler(ledger stock.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid ingredient id")
		}

		var body RestockIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Stock <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock must be positive")
		}

		ing, err := ledger.Restock(c.Context(), uint(id), body.Stock)
		if err != nil {
			if errors.Is(err, stock.ErrIngredientNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "ingredient could not be restocked")
		}

		return c.JSON(toIngredientResponse(ing))
	}
}
