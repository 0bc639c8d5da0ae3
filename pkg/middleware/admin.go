package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/auth"
	"bloodlink/internal/httperr"
)

// ContextUserKey is where the guard stashes the authenticated admin.
const ContextUserKey = "user"

// UserFinder re-checks the token's subject against current storage.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
}

// AdminGuard authorizes requests carrying a valid, unexpired bearer token for
// an account that still exists and still holds the admin role. The store
// re-check runs on every request; nothing is trusted from claims alone.
func AdminGuard(secret []byte, users UserFinder, log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if users == nil {
				return httperr.JSON(c, httperr.NotConfigured("Admin auth not configured on server"))
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return httperr.JSON(c, httperr.Unauthorized("Missing or malformed Authorization header"))
			}

			claims, err := auth.ParseToken(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return httperr.JSON(c, httperr.Unauthorized("Token expired"))
				}
				return httperr.JSON(c, httperr.Unauthorized("Invalid token"))
			}

			id, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				return httperr.JSON(c, httperr.Unauthorized("Invalid token"))
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				log.Errorw("Admin guard user lookup failed", "error", err)
				return httperr.JSON(c, err)
			}
			if user == nil {
				return httperr.JSON(c, httperr.Unauthorized("User not found"))
			}
			if user.Role != auth.RoleAdmin {
				return httperr.JSON(c, httperr.Forbidden("Admin access required"))
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
