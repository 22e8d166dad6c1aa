package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CollectionHandler serves collections publicly and lets admins replace them.
type CollectionHandler struct {
	catalogService *service.CatalogService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(catalogService *service.CatalogService) *CollectionHandler {
	return &CollectionHandler{catalogService: catalogService}
}

// ListCollections handles GET /v1/collections
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.catalogService.ListCollections()
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve collections")
		return
	}
	utils.Success(c, http.StatusOK, "Collections retrieved", collections)
}

type upsertCollectionsRequest struct {
	Collections []models.Collection `json:"collections" validate:"required,min=1,dive"`
}

// UpsertCollections handles PUT /v1/admin/collections
func (h *CollectionHandler) UpsertCollections(c *gin.Context) {
	var req upsertCollectionsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	collections, err := h.catalogService.UpsertCollections(req.Collections)
	if err != nil {
		writeServiceError(c, err, "Failed to save collections")
		return
	}
	utils.Success(c, http.StatusOK, "Collections saved", collections)
}
