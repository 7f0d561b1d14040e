package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/product"
	productdto "github.com/fekuna/omnipos-inventory-web/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	recentOrdersLimit = 5
	// formLines is how many empty item rows the create form offers.
	formLines = 3
)

type OrderHandler struct {
	uc       order.UseCase
	products product.UseCase
	render   *web.Renderer
	logger   logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, products product.UseCase, render *web.Renderer, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:       uc,
		products: products,
		render:   render,
		logger:   log,
	}
}

type createPage struct {
	Products []model.Product
	Statuses []string
	Lines    []int
}

type editPage struct {
	Order    *model.Order
	Statuses []string
}

func (h *OrderHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.uc.ListOrders(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		return err
	}
	return h.render.Render(c, "orders", "Orders", orders)
}

func (h *OrderHandler) RecentOrders(c *fiber.Ctx) error {
	orders, err := h.uc.RecentOrders(c.UserContext(), recentOrdersLimit)
	if err != nil {
		h.logger.Error("failed to list recent orders", zap.Error(err))
		return jsonFailure(c, fiber.StatusInternalServerError, "Error loading recent orders")
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *OrderHandler) CreateOrderForm(c *fiber.Ctx) error {
	return h.renderCreate(c)
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	if c.Is("json") {
		return h.createOrderJSON(c)
	}

	input, err := readCreateForm(c).Parse()
	if err != nil {
		return h.renderCreate(c, web.Error(err.Error()))
	}

	o, err := h.uc.CreateOrder(c.UserContext(), input)
	if err != nil {
		return h.renderCreate(c, web.Error(createFailure(err)))
	}

	return h.render.Redirect(c, fmt.Sprintf("/order_details/%d", o.ID), auth.FlashSuccess,
		fmt.Sprintf("Order %s created successfully!", o.OrderID))
}

func (h *OrderHandler) createOrderJSON(c *fiber.Ctx) error {
	var input dto.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return jsonFailure(c, fiber.StatusBadRequest, "Invalid order payload")
	}

	o, err := h.uc.CreateOrder(c.UserContext(), &input)
	if err != nil {
		var stockErr *order.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":    false,
				"message":    stockErr.Error(),
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			})
		}
		status := fiber.StatusBadRequest
		if validation.Message(err) == "" && !errors.Is(err, order.ErrProductNotFound) {
			status = fiber.StatusInternalServerError
		}
		return jsonFailure(c, status, createFailure(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("Order %s created successfully!", o.OrderID),
		"order":    o,
		"order_id": o.OrderID,
	})
}

// createFailure turns a CreateOrder error into the message shown to the user.
func createFailure(err error) string {
	var stockErr *order.InsufficientStockError
	switch {
	case validation.Message(err) != "":
		return validation.Message(err)
	case errors.As(err, &stockErr):
		return stockErr.Error()
	case errors.Is(err, order.ErrProductNotFound):
		return "Selected product no longer exists."
	default:
		return "Error creating order. Please try again."
	}
}

func (h *OrderHandler) renderCreate(c *fiber.Ctx, flashes ...auth.Flash) error {
	products, err := h.products.ListProducts(c.UserContext(), &productdto.ProductFilters{SortBy: "name", SortOrder: "asc"})
	if err != nil {
		h.logger.Error("failed to list products for order form", zap.Error(err))
		return err
	}
	return h.render.Render(c, "create_order", "Create order", createPage{Products: products, Statuses: model.OrderStatuses, Lines: make([]int, formLines)}, flashes...)
}

func readCreateForm(c *fiber.Ctx) dto.CreateOrderForm {
	args := c.Request().PostArgs()
	multi := func(key string) []string {
		var out []string
		for _, v := range args.PeekMulti(key) {
			out = append(out, string(v))
		}
		return out
	}

	return dto.CreateOrderForm{
		CustomerName:    c.FormValue("customer_name"),
		CustomerEmail:   c.FormValue("customer_email"),
		CustomerPhone:   c.FormValue("customer_phone"),
		ShippingAddress: c.FormValue("shipping_address"),
		Notes:           c.FormValue("notes"),
		Status:          c.FormValue("status"),
		TrackingNumber:  c.FormValue("tracking_number"),
		OrderDate:       c.FormValue("order_date"),
		ProductIDs:      multi("product_id"),
		Quantities:      multi("quantity"),
	}
}

func (h *OrderHandler) EditOrderForm(c *fiber.Ctx) error {
	o, err := h.load(c)
	if err != nil {
		return err
	}
	return h.render.Render(c, "edit_order", "Edit order", editPage{Order: o, Statuses: model.OrderStatuses})
}

// EditOrder takes either the full form or a partial JSON object.
func (h *OrderHandler) EditOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		if c.Is("json") {
			return jsonFailure(c, fiber.StatusNotFound, "Order not found")
		}
		return fiber.ErrNotFound
	}

	if c.Is("json") {
		o, err := h.uc.PatchOrder(c.UserContext(), id, c.Body())
		if err != nil {
			return h.patchFailure(c, id, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Order updated successfully!", "order": o})
	}

	o, err := h.load(c)
	if err != nil {
		return err
	}
	rerender := func(msg string) error {
		return h.render.Render(c, "edit_order", "Edit order", editPage{Order: o, Statuses: model.OrderStatuses}, web.Error(msg))
	}

	var form dto.EditOrderForm
	if err := c.BodyParser(&form); err != nil {
		return rerender(dto.ErrInvalidAmount.Error())
	}
	input, err := form.Parse()
	if err != nil {
		return rerender(err.Error())
	}

	if _, err := h.uc.EditOrder(c.UserContext(), id, input); err != nil {
		if msg := validation.Message(err); msg != "" {
			return rerender(msg)
		}
		if errors.Is(err, order.ErrNotFound) {
			return fiber.ErrNotFound
		}
		h.logger.Error("failed to update order", zap.Int64("order_id", id), zap.Error(err))
		return rerender("Error updating order.")
	}

	return h.render.Redirect(c, fmt.Sprintf("/order_details/%d", id), auth.FlashSuccess, "Order updated successfully!")
}

func (h *OrderHandler) patchFailure(c *fiber.Ctx, id int64, err error) error {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return jsonFailure(c, fiber.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrInvalidPatch):
		return jsonFailure(c, fiber.StatusBadRequest, "Invalid order payload")
	case errors.Is(err, dto.ErrInvalidAmount), errors.Is(err, dto.ErrInvalidDate):
		return jsonFailure(c, fiber.StatusBadRequest, err.Error())
	case validation.Message(err) != "":
		return jsonFailure(c, fiber.StatusBadRequest, validation.Message(err))
	default:
		h.logger.Error("failed to patch order", zap.Int64("order_id", id), zap.Error(err))
		return jsonFailure(c, fiber.StatusInternalServerError, "Error updating order")
	}
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonFailure(c, fiber.StatusNotFound, "Order not found")
	}

	o, err := h.uc.DeleteOrder(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return jsonFailure(c, fiber.StatusNotFound, "Order not found")
		}
		h.logger.Error("failed to delete order", zap.Int64("order_id", id), zap.Error(err))
		return jsonFailure(c, fiber.StatusInternalServerError, "Error deleting order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Order %s deleted successfully", o.OrderID),
	})
}

func (h *OrderHandler) OrderDetails(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}

	details, err := h.uc.GetOrderDetails(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fiber.ErrNotFound
		}
		h.logger.Error("failed to load order details", zap.Int64("order_id", id), zap.Error(err))
		return err
	}
	return h.render.Render(c, "order_details", "Order "+details.Order.OrderID, details)
}

func (h *OrderHandler) load(c *fiber.Ctx) (*model.Order, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	o, err := h.uc.GetOrder(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return nil, fiber.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func jsonFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
