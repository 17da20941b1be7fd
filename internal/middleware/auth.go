package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/facefinder/facefinder-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthJWTMiddleware accepts a bearer Authorization header or the session
// cookie, validates the token, and loads the user into both the echo
// context and the request context.
func (mw *MiddlewareManager) AuthJWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearerHeader := c.Request().Header.Get("Authorization")

			if bearerHeader != "" {
				headerParts := strings.Split(bearerHeader, " ")
				if len(headerParts) != 2 {
					mw.logger.Errorf("auth middleware - malformed bearer header RequestID: %s", utils.GetRequestID(c))
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				}

				if err := mw.validateJWTToken(headerParts[1], c); err != nil {
					mw.logger.Errorf("auth middleware - validateJWTToken: %v", err)
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				}
				return next(c)
			}

			cookie, err := c.Cookie(mw.cfg.Session.Name)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if err = mw.validateJWTToken(cookie.Value, c); err != nil {
				mw.logger.Errorf("auth middleware - validateJWTToken: %v", err)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}

func (mw *MiddlewareManager) validateJWTToken(tokenString string, c echo.Context) error {
	if tokenString == "" {
		return fmt.Errorf("invalid token string")
	}

	claims, err := utils.ValidateToken(tokenString, mw.cfg.Server.JwtSecretKey)
	if err != nil {
		return err
	}

	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("invalid jwt claims: %v", err)
	}

	u, err := mw.authUC.GetByID(c.Request().Context(), userUUID)
	if err != nil {
		return err
	}

	c.Set("user", u)
	c.SetRequest(c.Request().WithContext(utils.WithUser(c.Request().Context(), u)))
	return nil
}
