package handlers

import (
	"net/http"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/msgs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/services"
	"github.com/gin-gonic/gin"
)

func MustAuthenticateMiddleware(authService *services.AuthenticationService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := authService.Authenticate(ctx.GetHeader("Authorization"))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(msgs.MsgYouMustLoginFirst, err))
			return
		}

		ctx.Set("user_id", claims.UserID)
		ctx.Set("username", claims.Username)
		ctx.Set("scope", claims.Scope)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}

// RequireServiceScopeMiddleware must run after MustAuthenticateMiddleware.
func RequireServiceScopeMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString("scope") != enums.TOKEN_SCOPE_SERVICE {
			ctx.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse(msgs.MsgServiceScopeNeeded, errs.ErrForbidden))
			return
		}
		ctx.Next()
	}
}
