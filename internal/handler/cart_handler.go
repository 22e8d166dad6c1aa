package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

const cartHeader = "X-Cart-Id"

// CartHandler exposes the shopper's cart.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, ok := resolveCartID(c)
	if !ok {
		return
	}

	summary, err := h.cartService.Summary(c.Request.Context(), cartID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve cart")
		return
	}
	utils.Success(c, http.StatusOK, "Cart retrieved", summary)
}

// resolveCartID reads the cart id header, issuing a new id when absent. The
// id is echoed back on the response.
func resolveCartID(c *gin.Context) (string, bool) {
	cartID := c.GetHeader(cartHeader)
	if cartID == "" {
		cartID = uuid.NewString()
	} else if _, err := uuid.Parse(cartID); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CART_ID", "X-Cart-Id must be a UUID")
		return "", false
	}
	c.Set("cart_id", cartID)
	c.Header(cartHeader, cartID)
	return cartID, true
}
