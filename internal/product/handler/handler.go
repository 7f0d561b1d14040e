package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/product"
	"github.com/fekuna/omnipos-inventory-web/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	render *web.Renderer
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, render *web.Renderer, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		render: render,
		logger: log,
	}
}

type inventoryPage struct {
	Products   []model.Product
	Categories []string
	Filters    dto.ProductFilters
}

type formPage struct {
	Product    *model.Product
	Categories []string
}

func (h *ProductHandler) Inventory(c *fiber.Ctx) error {
	filters := dto.ProductFilters{
		Category:    c.Query("category"),
		SearchQuery: c.Query("q"),
		SortBy:      c.Query("sort"),
		SortOrder:   c.Query("order"),
	}

	products, err := h.uc.ListProducts(c.UserContext(), &filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return err
	}

	return h.render.Render(c, "inventory", "Inventory", inventoryPage{
		Products:   products,
		Categories: h.categories(c),
		Filters:    filters,
	})
}

func (h *ProductHandler) AddProductForm(c *fiber.Ctx) error {
	return h.render.Render(c, "add_product", "Add product", formPage{Categories: h.categories(c)})
}

func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	rerender := func(msg string) error {
		return h.render.Render(c, "add_product", "Add product", formPage{Categories: h.categories(c)}, web.Error(msg))
	}

	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return rerender(dto.ErrInvalidNumber.Error())
	}
	input, err := form.Parse()
	if err != nil {
		return rerender(err.Error())
	}

	p, err := h.uc.AddProduct(c.UserContext(), input)
	if err != nil {
		if msg := validation.Message(err); msg != "" {
			return rerender(msg)
		}
		var dup *product.DuplicateNameError
		if errors.As(err, &dup) {
			return h.render.Redirect(c, fmt.Sprintf("/edit_product/%d", dup.ExistingID), auth.FlashWarning,
				fmt.Sprintf("Product \"%s\" already exists! You can edit it from the inventory.", dup.Name))
		}
		h.logger.Error("failed to add product", zap.Error(err))
		return rerender("Error adding product. Please try again.")
	}

	return h.render.Redirect(c, "/inventory", auth.FlashSuccess,
		fmt.Sprintf("Product \"%s\" added to category \"%s\" successfully!", p.Name, p.Category))
}

func (h *ProductHandler) EditProductForm(c *fiber.Ctx) error {
	p, err := h.load(c)
	if err != nil {
		return err
	}
	return h.render.Render(c, "edit_product", "Edit product", formPage{Product: p, Categories: h.categories(c)})
}

func (h *ProductHandler) EditProduct(c *fiber.Ctx) error {
	p, err := h.load(c)
	if err != nil {
		return err
	}
	rerender := func(msg string) error {
		return h.render.Render(c, "edit_product", "Edit product", formPage{Product: p, Categories: h.categories(c)}, web.Error(msg))
	}

	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return rerender(dto.ErrInvalidNumber.Error())
	}
	input, err := form.Parse()
	if err != nil {
		return rerender(err.Error())
	}

	if _, err := h.uc.EditProduct(c.UserContext(), p.ID, input); err != nil {
		if msg := validation.Message(err); msg != "" {
			return rerender(msg)
		}
		if errors.Is(err, product.ErrNotFound) {
			return fiber.ErrNotFound
		}
		h.logger.Error("failed to update product", zap.Int64("product_id", p.ID), zap.Error(err))
		return rerender("Error updating product.")
	}

	return h.render.Redirect(c, "/inventory", auth.FlashSuccess, "Product updated successfully!")
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}

	p, err := h.uc.DeleteProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		if errors.Is(err, product.ErrInUse) {
			h.logger.Warn("product still referenced", zap.Int64("product_id", id))
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Error deleting product. It is still used by other records."})
		}
		h.logger.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error deleting product"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Product \"%s\" deleted successfully", p.Name),
	})
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error loading categories"})
	}
	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

// load resolves the :id route parameter, answering 404 when it does not exist.
func (h *ProductHandler) load(c *fiber.Ctx) (*model.Product, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	p, err := h.uc.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, fiber.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// categories feeds the category pickers; a failure only empties the list.
func (h *ProductHandler) categories(c *fiber.Ctx) []string {
	categories, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		h.logger.Warn("failed to list categories", zap.Error(err))
		return nil
	}
	return categories
}
