package http

import (
	"errors"
	"net/http"

	"github.com/elainedb/videofeed/domain/dto"
	"github.com/elainedb/videofeed/usecase"

	"github.com/gin-gonic/gin"
)

// IAuthHandler defines the sign-in HTTP surface
type IAuthHandler interface {
	Login(ctx *gin.Context)
	Account(ctx *gin.Context)
}

// AuthHandler exchanges an identity-provider ID token for a session token
// after the allow-list check.
type AuthHandler struct {
	authUseCase usecase.IAuthUseCase
}

func NewAuthHandler(authUseCase usecase.IAuthUseCase) IAuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Login handles POST /login
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req dto.SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	session, err := h.authUseCase.SignIn(ctx.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, usecase.ErrAccessDenied) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Your email is not authorized."})
			return
		}
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Sign-in failed",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

// Account handles GET /api/account, the authenticated account view.
func (h *AuthHandler) Account(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"email": email}})
}
