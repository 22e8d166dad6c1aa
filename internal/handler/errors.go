package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// writeServiceError maps service errors onto the response envelope.
// Anything unrecognised is logged and reported as a 500 with fallback.
func writeServiceError(c *gin.Context, err error, fallback string) {
	var catalogErr *service.CatalogValidationError
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrCollectionNotFound):
		utils.Error(c, http.StatusNotFound, "COLLECTION_NOT_FOUND", "Collection not found")
	case errors.Is(err, utils.ErrInvalidOption):
		utils.Error(c, http.StatusBadRequest, "INVALID_OPTION", err.Error())
	case errors.As(err, &catalogErr):
		utils.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_CATALOG", "Product variants are inconsistent", catalogErr.Anomalies)
	case errors.Is(err, utils.ErrSlugTaken):
		utils.Error(c, http.StatusConflict, "SLUG_TAKEN", "Slug already in use")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
// It writes the 400 response itself and reports whether to continue.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Request failed validation", utils.FieldErrors(err))
		return false
	}
	return true
}
