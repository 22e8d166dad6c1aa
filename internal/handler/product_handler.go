package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// ProductHandler serves storefront product cards.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Collection: c.Query("collection"),
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 24),
	}
	if v := c.Query("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "featured must be true or false")
			return
		}
		filter.Featured = &featured
	}

	cards, res, err := h.productService.ListCards(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve products")
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Products retrieved", cards, res.Page, res.Limit, res.TotalItems)
}

// GetProduct handles GET /v1/products/:slug?selected[Color]=Blue
func (h *ProductHandler) GetProduct(c *gin.Context) {
	card, err := h.productService.GetCard(c.Request.Context(), c.Param("slug"), c.QueryMap("selected"))
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve product")
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved", card)
}

// GetAvailability handles GET /v1/products/:slug/availability?option=&value=
// An option or value the product does not declare is 400 INVALID_OPTION.
func (h *ProductHandler) GetAvailability(c *gin.Context) {
	option, value := c.Query("option"), c.Query("value")
	if option == "" || value == "" {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "option and value are required")
		return
	}

	res, err := h.productService.Availability(c.Request.Context(), c.Param("slug"), c.QueryMap("selected"), option, value)
	if err != nil {
		writeServiceError(c, err, "Failed to check availability")
		return
	}
	utils.Success(c, http.StatusOK, "Availability checked", res)
}

type addToCartRequest struct {
	Selected map[string]string `json:"selected"`
}

// AddToCart handles POST /v1/products/:slug/cart
func (h *ProductHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	cartID, ok := resolveCartID(c)
	if !ok {
		return
	}

	res, err := h.productService.AddToCart(c.Request.Context(), c.Param("slug"), cartID, req.Selected)
	if err != nil {
		writeServiceError(c, err, "Failed to add to cart")
		return
	}

	msg := "Added to cart"
	if !res.Added {
		msg = "Selection cannot be added to cart"
	}
	utils.Success(c, http.StatusOK, msg, res)
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
