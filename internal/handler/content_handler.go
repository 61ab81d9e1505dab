package handler

import (
	"strings"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/service"
	"github.com/gin-gonic/gin"
)

// ContentHandler serves CRUD routes for one content kind.
type ContentHandler[R domain.Record, In domain.Input] struct {
	service  service.ContentService[R, In]
	parse    func(formReader) (In, error)
	idField  string
	maxBytes int64
}

type (
	PostHandler    = ContentHandler[*domain.Post, domain.PostInput]
	ListingHandler = ContentHandler[*domain.Listing, domain.ListingInput]
	ZoneHandler    = ContentHandler[*domain.Zone, domain.ZoneInput]
)

// NewPostHandler creates the /api/blog handler
func NewPostHandler(svc service.PostService, maxUploadBytes int64) *PostHandler {
	return &PostHandler{service: svc, parse: parsePostForm, idField: "postId", maxBytes: maxUploadBytes}
}

// NewListingHandler creates the /api/listings handler
func NewListingHandler(svc service.ListingService, maxUploadBytes int64) *ListingHandler {
	return &ListingHandler{service: svc, parse: parseListingForm, idField: "listingId", maxBytes: maxUploadBytes}
}

// NewZoneHandler creates the /api/zones handler
func NewZoneHandler(svc service.ZoneService, maxUploadBytes int64) *ZoneHandler {
	return &ZoneHandler{service: svc, parse: parseZoneForm, idField: "zoneId", maxBytes: maxUploadBytes}
}

// List godoc
// @Summary      List records
// @Description  Returns every record of the kind, newest pubDate first
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /blog [get]
// @Router       /listings [get]
// @Router       /zones [get]
func (h *ContentHandler[R, In]) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, records)
}

// Get godoc
// @Summary      Get a record
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /blog/{id} [get]
// @Router       /listings/{id} [get]
// @Router       /zones/{id} [get]
func (h *ContentHandler[R, In]) Get(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, rec)
}

// Create godoc
// @Summary      Create a record
// @Description  Multipart form. Slugs are derived from the titles.
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title_es        formData  string  false  "Spanish title"
// @Param        title_en        formData  string  false  "English title"
// @Param        coverImageFile  formData  file    false  "Cover image"
// @Success      201  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Router       /blog [post]
// @Router       /listings [post]
// @Router       /zones [post]
func (h *ContentHandler[R, In]) Create(c *gin.Context) {
	in, err := h.parse(formReader{c: c, maxBytes: h.maxBytes})
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	common.CreatedResponse(c, gin.H{
		"success": true,
		"id":      id,
		h.idField: id,
	})
}

// Update godoc
// @Summary      Update a record
// @Description  Only submitted fields change. Send <field>_clear_flag=true to remove an optional field.
// @Description  An unchecked checkbox sends nothing, so forms must post draft=off (or false) to publish.
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Record ID"
// @Param        draft  formData  string  false  "on|true|1 keeps a draft, off|false|0 publishes; omit to leave unchanged"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /blog/{id} [put]
// @Router       /listings/{id} [put]
// @Router       /zones/{id} [put]
func (h *ContentHandler[R, In]) Update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	in, err := h.parse(formReader{c: c, maxBytes: h.maxBytes})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), id, in); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"success": true})
}

// Delete godoc
// @Summary      Delete a record
// @Description  Also removes the cover image from storage
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /blog/{id} [delete]
// @Router       /listings/{id} [delete]
// @Router       /zones/{id} [delete]
func (h *ContentHandler[R, In]) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"success": true})
}

func (h *ContentHandler[R, In]) id(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || strings.Contains(id, "/") {
		respondError(c, common.ErrMissingID)
		return "", false
	}
	return id, true
}
