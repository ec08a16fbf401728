package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes expects a group already scoped to
// /titles/:title_id/reviews with the review permission set attached.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:review_id", h.Get)
	rg.PATCH("/:review_id", h.Update)
	rg.DELETE("/:review_id", h.Delete)
}

// List returns a title's reviews newest-first
// GET /v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	page, pageSize := pagination(c)
	reviews, err := h.svc.List(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Get returns a single review under the named title
// GET /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	reviewID, err := paramInt64(c, "review_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create posts the caller's review for a title, one per author
// POST /v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	review, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), titleID, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Update partially updates a review (author, moderator or admin)
// PATCH /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	reviewID, err := paramInt64(c, "review_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	review, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete removes a review (author, moderator or admin)
// DELETE /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	reviewID, err := paramInt64(c, "review_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
