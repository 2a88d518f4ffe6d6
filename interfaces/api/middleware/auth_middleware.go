package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

// Protected validates the bearer token and attaches the caller identity.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		claims, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		attachIdentity(c, claims)
		return c.Next()
	}
}

// Optional attaches the caller identity when a valid token is present and
// lets anonymous requests through otherwise.
func Optional(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			return c.Next()
		}

		claims, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			return c.Next()
		}

		attachIdentity(c, claims)
		return c.Next()
	}
}

func attachIdentity(c *fiber.Ctx, claims *utils.JWTClaims) {
	reqctx.Set(c, reqctx.Get(c).WithIdentity(reqctx.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}))
	c.SetUserContext(logger.ContextWithUserID(c.UserContext(), claims.UserID))
}

// RequireRoles lets the request through when the caller holds one of roles.
// It must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := reqctx.CurrentIdentity(c)
		if identity == nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		if !identity.HasRole(roles...) {
			logger.WarnContext(c.UserContext(), "Access denied",
				"user_id", identity.UserID,
				"role", identity.Role,
				"path", c.Path(),
			)
			return utils.ForbiddenResponse(c, "Insufficient permissions")
		}

		return c.Next()
	}
}
