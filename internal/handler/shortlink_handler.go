package handler

import (
	"net/http"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/getyourdepa/depa-cms/internal/service"
	"github.com/gin-gonic/gin"
)

// ShortLinkHandler handles the URL shortener
type ShortLinkHandler struct {
	service service.ShortLinkService
}

// NewShortLinkHandler creates a new ShortLinkHandler
func NewShortLinkHandler(svc service.ShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{service: svc}
}

// Shorten godoc
// @Summary      Create a short link
// @Tags         shortlink
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.ShortenRequest  true  "Target URL"
// @Success      201      {object}  common.APIResponse{data=domain.ShortenResponse}
// @Failure      400      {object}  common.APIResponse
// @Router       /shorten [post]
func (h *ShortLinkHandler) Shorten(c *gin.Context) {
	var req domain.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "shortlink.invalid_url"), err)
		return
	}

	resp, err := h.service.Shorten(c.Request.Context(), req.LongURL)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// Redirect godoc
// @Summary      Follow a short link
// @Tags         shortlink
// @Param        key  path  string  true  "Short key"
// @Success      302
// @Failure      404  {object}  common.APIResponse
// @Router       /r/{key} [get]
func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	target, err := h.service.Resolve(c.Request.Context(), c.Param("key"))
	if err != nil {
		if isNotFound(err) {
			common.ErrorResponse(c, http.StatusNotFound, middleware.T(c, "shortlink.not_found"), nil)
			return
		}
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
