package order

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"siparis-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	Products []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

type OrderLineRequest struct {
	ProductID uint  `json:"product_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,min=1"`
}

type OrderLineResponse struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderResponse struct {
	ID        uint                `json:"id"`
	Products  []OrderLineResponse `json:"products"`
	CreatedAt string              `json:"created_at"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names instead of Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := validate.Struct(body); err != nil {
			var ferrs validator.ValidationErrors
			if errors.As(err, &ferrs) {
				return unprocessable(c, shapeErrors(ferrs))
			}
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		lines := make([]LineInput, 0, len(body.Products))
		for _, p := range body.Products {
			lines = append(lines, LineInput{ProductID: p.ProductID, Quantity: p.Quantity})
		}

		o, err := svc.Create(c.Context(), lines)
		if err != nil {
			var verrs *ValidationErrors
			if errors.As(err, &verrs) {
				return unprocessable(c, verrs.Lines)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "order could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(o))
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		o, err := svc.Get(c.Context(), uint(id))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "order not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "order could not be loaded")
		}

		return c.JSON(toResponse(o))
	}
}

func unprocessable(c *fiber.Ctx, lines []LineError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"errors": lines,
	})
}

// shapeErrors maps validator/v10 failures onto the same per-line error shape
// the service produces. Namespaces look like "CreateOrderRequest.products[2].quantity".
func shapeErrors(ferrs validator.ValidationErrors) []LineError {
	out := make([]LineError, 0, len(ferrs))
	for _, fe := range ferrs {
		index := -1
		ns := fe.Namespace()
		if open := strings.Index(ns, "["); open >= 0 {
			if end := strings.Index(ns[open:], "]"); end > 0 {
				if n, err := strconv.Atoi(ns[open+1 : open+end]); err == nil {
					index = n
				}
			}
		}

		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if fe.Field() == "products" {
				msg = "at least one product is required"
			} else {
				msg = "must be at least " + fe.Param()
			}
		default:
			msg = "is invalid"
		}

		out = append(out, LineError{Index: index, Field: fe.Field(), Message: msg})
	}
	return out
}

func toResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		Products:  make([]OrderLineResponse, 0, len(o.Lines)),
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, line := range o.Lines {
		resp.Products = append(resp.Products, OrderLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return resp
}
