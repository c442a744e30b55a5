package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the JWT access
// token and stores it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// OptionalUserIDFromTokenMiddleware stores the user ID when a valid
// access token accompanies the request and lets anonymous requests
// through untouched. For public reads that personalize their payload
// for logged-in users.
func OptionalUserIDFromTokenMiddleware(verifier *jwt.Verifier) iris.Handler {
	return func(ctx iris.Context) {
		if token := verifier.RequestToken(ctx); token != "" {
			if verifiedToken, err := verifier.VerifyToken([]byte(token)); err == nil {
				var claims AccessToken
				if err := verifiedToken.Claims(&claims); err == nil {
					ctx.Values().Set("userID", claims.ID)
				}
			}
		}
		ctx.Next()
	}
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
