package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes expects a group already scoped to
// /titles/:title_id/reviews/:review_id/comments.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:comment_id", h.Get)
	rg.PATCH("/:comment_id", h.Update)
	rg.DELETE("/:comment_id", h.Delete)
}

func (h *CommentHandler) parents(c *gin.Context) (int64, int64, error) {
	titleID, err := paramInt64(c, "title_id")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := paramInt64(c, "review_id")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

// List returns a review's comments newest-first
// GET /v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, err := h.parents(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	page, pageSize := pagination(c)
	comments, err := h.svc.List(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get returns a single comment under the named review
// GET /v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, err := h.parents(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	commentID, err := paramInt64(c, "comment_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create posts the caller's comment on a review
// POST /v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, err := h.parents(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update partially updates a comment (author, moderator or admin)
// PATCH /v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, err := h.parents(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	commentID, err := paramInt64(c, "comment_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, commentID, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment (author, moderator or admin)
// DELETE /v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := h.parents(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	commentID, err := paramInt64(c, "comment_id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, commentID); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
