package authControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

const refreshCookieName = "refresh_token"

// -------- Request Structs --------

type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Username         string `json:"username" binding:"required,min=3,max=30"`
	Password         string `json:"password" binding:"required,min=8,max=72"`
	ConfirmationCode *int   `json:"confirmation_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// issueTokens writes the refresh cookie and returns the access token body.
func issueTokens(c *gin.Context, tokens *service.TokenService, userID uint, refreshTTL time.Duration) {
	accessToken, err := tokens.NewAccessToken(userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	refreshToken, err := tokens.IssueRefreshToken(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.SetCookie(refreshCookieName, refreshToken, int(refreshTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "token_type": "bearer"})
}

// POST /auth/:email/send-confirmation-code
func SendConfirmationCode(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if err := users.SendConfirmationCode(c.Request.Context(), email); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Confirmation code sent"})
	}
}

// POST /auth/register
func Register(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := users.Register(c.Request.Context(), service.RegisterInput{
			Email:            req.Email,
			Username:         req.Username,
			Password:         req.Password,
			ConfirmationCode: req.ConfirmationCode,
		})
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// POST /auth/confirm
func ConfirmEmail(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := users.ConfirmEmail(c.Request.Context(), req.Token); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "The user is confirmed"})
	}
}

// POST /auth/login
func Login(users *service.UserService, tokens *service.TokenService, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := users.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		issueTokens(c, tokens, user.ID, refreshTTL)
	}
}

// POST /auth/refresh
func Refresh(tokens *service.TokenService, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(refreshCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token found"})
			return
		}
		userID, err := tokens.UserID(cookie)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if err := tokens.Validate(c.Request.Context(), models.TokenKindRefresh, userID, cookie); err != nil {
			httperr.Respond(c, err)
			return
		}
		issueTokens(c, tokens, userID, refreshTTL)
	}
}

// POST /auth/logout
func Logout(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tokens.Revoke(c.Request.Context(), models.TokenKindRefresh, middleware.UserID(c)); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// POST /auth/password-recovery/:email
func RecoverPassword(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.RecoverPassword(c.Request.Context(), c.Param("email")); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Recovery email sent"})
	}
}

// PUT /auth/password
func ResetPassword(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "New password set"})
	}
}
