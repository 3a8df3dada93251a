package handlers

import (
	"errors"
	"net/http"

	"tabeza/models"
	"tabeza/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation models.ValidationError
		notFound   models.NotFoundError
		configErr  models.ConfigurationError
		stateErr   models.InvalidStateError
		gatewayErr models.GatewayError
	)
	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", validation.Error())
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not found", notFound.Error())
	case errors.As(err, &configErr):
		utils.JSONError(c, http.StatusBadRequest, "venue not configured for payments", configErr.Error())
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, "invalid state", stateErr.Error())
	case errors.As(err, &gatewayErr):
		utils.JSONError(c, http.StatusBadGateway, "payment gateway request failed", gatewayErr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
