package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/email", h.SendCode)
	rg.POST("/token", h.Token)
}

// SendCode mails a confirmation code to the given address
// POST /v1/auth/email
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	if err := h.authService.SendConfirmationCode(c.Request.Context(), req.Email); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SendCodeResponse{Email: req.Email})
}

// Token exchanges a confirmation code for a bearer access token
// POST /v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBinding(err))
		return
	}

	token, err := h.authService.RedeemCode(c.Request.Context(), req.Email, req.ConfirmationCode)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
