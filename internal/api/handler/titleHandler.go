package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/permission"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

// RegisterRoutes attaches the title routes. Permissions are per-route, not
// group-level, so the nested review/comment groups can carry their own.
func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	adminOrRead := middleware.Require(permission.IsAdminOrReadOnly{})

	rg.GET("", adminOrRead, h.List)
	rg.POST("", adminOrRead, h.Create)
	rg.GET("/:title_id", adminOrRead, h.Get)
	rg.PATCH("/:title_id", adminOrRead, h.Update)
	rg.DELETE("/:title_id", adminOrRead, h.Delete)
}

// List returns titles newest-first, filterable by name, year, genre and
// category slug
// GET /v1/titles?name=&year=&genre=&category=
func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		Name:     c.Query("name"),
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apierr.Respond(c, apierr.Validation("invalid year filter"))
			return
		}
		filter.Year = &year
	}

	page, pageSize := pagination(c)
	titles, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// Get returns the expanded read form including the derived rating
// GET /v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	title, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Create adds a title; genres and category are referenced by slug
// POST /v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	title, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// Update partially updates a title
// PATCH /v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	title, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Delete removes a title together with its reviews
// DELETE /v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
