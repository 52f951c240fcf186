package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/middleware"
	"github.com/Fingel/fastastro/internal/services"
	"github.com/Fingel/fastastro/internal/services/dto"
	"github.com/Fingel/fastastro/pkg/apperrors"
)

type AuthHandler struct {
	*BaseHandler
	authService *services.AuthService
	tokens      *auth.TokenService
}

func NewAuthHandler(base *BaseHandler, authService *services.AuthService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		tokens:      tokens,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/token", h.Login)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/confirm_email", h.ConfirmEmail)
		authGroup.POST("/reset_password", h.RequestPasswordReset)
		authGroup.POST("/password_reset_confirm", h.ConfirmPasswordReset)
	}

	me := rg.Group("/auth/users/me")
	me.Use(middleware.AuthMiddleware(h.tokens))
	{
		me.GET("", h.GetCurrentUser)
		me.PATCH("", h.UpdateProfile)
		me.POST("/update_password", h.ChangePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login accepts the OAuth2 password grant form (username, password).
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	email, ok := h.CurrentUserEmail(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	email, ok := h.CurrentUserEmail(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), email, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	email, ok := h.CurrentUserEmail(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), email, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailOK)
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.HandleServiceError(c, apperrors.ErrInvalidToken)
		return
	}

	if err := h.authService.ConfirmEmail(c.Request.Context(), token); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailOK)
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailOK)
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DetailOK)
}
