package handler

import (
	"errors"
	"net/http"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/getyourdepa/depa-cms/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Unknown errors become
// a generic 500; the detail only reaches the log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, middleware.T(c, "error.not_found"), err)
	case errors.Is(err, errUploadTooLarge):
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, middleware.T(c, "error.bad_request"), err)
	case errors.Is(err, common.ErrMissingID):
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "content.id_required"), err)
	case errors.Is(err, common.ErrInvalidURL):
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "shortlink.invalid_url"), err)
	case errors.Is(err, common.ErrBlockedURL):
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "shortlink.blocked_url"), err)
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "error.validation"), err)
	case errors.Is(err, service.ErrKeyExhausted):
		common.ErrorResponse(c, http.StatusServiceUnavailable, middleware.T(c, "shortlink.exhausted"), err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, middleware.T(c, "error.internal"), err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
