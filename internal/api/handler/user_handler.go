package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/permission"
	"reviewhub/internal/api/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.Require(permission.IsAdmin{})

	rg.GET("", admin, h.List)
	rg.POST("", admin, h.Create)

	// "me" must be registered before the username routes
	me := middleware.Require(permission.IsAuthenticated{})
	rg.GET("/me", me, h.Me)
	rg.PATCH("/me", me, h.UpdateMe)

	rg.GET("/:username", admin, h.Get)
	rg.PATCH("/:username", admin, h.Update)
	rg.DELETE("/:username", admin, h.Delete)
}

// List returns users with a completed profile
// GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	users, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds a user with an admin-chosen role
// POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the authenticated user's own record
// GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UserFromModel(middleware.CurrentUser(c)))
}

// UpdateMe partially updates the caller's own record; role stays
// write-protected for non-admins
// PATCH /v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.Update(c.Request.Context(), actor, actor, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Get looks a user up by username
// GET /v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update partially updates a user by username
// PATCH /v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.userService.UpdateByUsername(c.Request.Context(), actor, c.Param("username"), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user by username
// DELETE /v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.DeleteByUsername(c.Request.Context(), c.Param("username")); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
