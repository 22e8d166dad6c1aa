package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// ProductManagementHandler handles product CRUD HTTP endpoints.
type ProductManagementHandler struct {
	catalogService *service.CatalogService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(catalogService *service.CatalogService) *ProductManagementHandler {
	return &ProductManagementHandler{catalogService: catalogService}
}

// ListProducts handles GET /v1/admin/products
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Collection: c.Query("collection"),
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 50),
	}
	if v := c.Query("featured"); v != "" {
		if featured, err := strconv.ParseBool(v); err == nil {
			filter.Featured = &featured
		}
	}

	result, err := h.catalogService.ListProducts(filter)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve products")
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Products retrieved", result.Products, result.Page, result.Limit, result.TotalItems)
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, http.StatusCreated, "Product created successfully", product)
}

// GetProduct handles GET /v1/admin/products/:id
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve product")
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err, "Failed to update product")
		return
	}
	utils.Success(c, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err, "Failed to delete product")
		return
	}
	utils.Success(c, http.StatusOK, "Product deleted successfully", nil)
}

// AuditProduct handles GET /v1/admin/products/:id/audit
func (h *ProductManagementHandler) AuditProduct(c *gin.Context) {
	anomalies, err := h.catalogService.AuditProduct(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "Failed to audit product")
		return
	}
	utils.Success(c, http.StatusOK, "Product audited", gin.H{
		"clean":     len(anomalies) == 0,
		"anomalies": anomalies,
	})
}
