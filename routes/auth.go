package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/ivan-22-3-5/e-commerce/controllers/auth"
	"github.com/ivan-22-3-5/e-commerce/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/:email/send-confirmation-code", authControllers.SendConfirmationCode(deps.Users))
		authGroup.POST("/register", authControllers.Register(deps.Users))
		authGroup.POST("/confirm", authControllers.ConfirmEmail(deps.Users))
		authGroup.POST("/login", authControllers.Login(deps.Users, deps.Tokens, deps.RefreshTTL))
		authGroup.POST("/refresh", authControllers.Refresh(deps.Tokens, deps.RefreshTTL))
		authGroup.POST("/password-recovery/:email", authControllers.RecoverPassword(deps.Users))
		authGroup.PUT("/password", authControllers.ResetPassword(deps.Users))

		authGroup.POST("/logout", middleware.Authenticate(deps.Tokens), authControllers.Logout(deps.Tokens))
	}
}
