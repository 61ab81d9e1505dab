package handler

import (
	"net/http"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/getyourdepa/depa-cms/internal/service"
	"github.com/getyourdepa/depa-cms/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

const (
	galleryFileField = "imageFile"
	galleryMaxLimit  = 500
)

// GalleryHandler handles gallery requests
type GalleryHandler struct {
	service  service.GalleryService
	maxBytes int64
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(svc service.GalleryService, maxUploadBytes int64) *GalleryHandler {
	return &GalleryHandler{service: svc, maxBytes: maxUploadBytes}
}

// List godoc
// @Summary      List gallery images
// @Description  Every image in the media bucket, most recent first
// @Tags         gallery
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of images"
// @Success      200  {object}  common.APIResponse{data=[]domain.GalleryItem}
// @Failure      401  {object}  common.APIResponse
// @Router       /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if limit := ginutil.QueryLimit(c, "limit", galleryMaxLimit); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	common.SuccessResponse(c, items)
}

// Upload godoc
// @Summary      Upload a gallery image
// @Tags         gallery
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        imageFile  formData  file  true  "Image"
// @Success      201  {object}  common.APIResponse{data=domain.GalleryUploadResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /gallery [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	up, ok, err := formReader{c: c, maxBytes: h.maxBytes}.file(galleryFileField)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		common.ErrorResponse(c, http.StatusBadRequest, middleware.T(c, "gallery.file_required"), nil)
		return
	}

	item, err := h.service.Upload(c.Request.Context(), up)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, domain.GalleryUploadResponse{
		Success: true,
		Name:    item.Name,
		URL:     item.URL,
	})
}
