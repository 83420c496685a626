package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the middleware chain. Downstream handlers read the
// establishment from here, never from the request body.
const (
	ContextKeyUserID            = "user_id"
	ContextKeyEmail             = "email"
	ContextKeyEstablecimientoID = "establecimiento_id"
)

// AccessChecker answers whether a user holds any role on an establishment.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, establecimientoID int) (bool, error)
}

// AdminChecker answers whether a user holds the platform admin role.
type AdminChecker interface {
	IsPlatformAdmin(ctx context.Context, userID int) (bool, error)
}

// AuthMiddleware enforces a valid JWT and binds the caller's identity into
// the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Authorization header required",
				Message: "No se proporcionó token de acceso.",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid authorization format",
				Message: "Authorization header must be in format 'Bearer <token>'",
			})
			c.Abort()
			return
		}

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Printf("[AuthMiddleware] JWT_SECRET not set")
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: "Server not configured",
			})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid token",
				Message: "Token no válido o expirado.",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Invalid token claims",
			})
			c.Abort()
			return
		}

		userID, ok := claimInt(claims, "user_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Invalid token claims",
			})
			c.Abort()
			return
		}
		c.Set(ContextKeyUserID, userID)
		if email, ok := claims["email"].(string); ok {
			c.Set(ContextKeyEmail, email)
		}

		c.Next()
	}
}

// EstablishmentMiddleware is the tenancy stage: it resolves the
// establishment named in the path and rejects callers without a role on
// it. On success the establishment id is bound into the context and every
// downstream query filters by it.
func EstablishmentMiddleware(store AccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		establecimientoID, err := strconv.Atoi(c.Param("establecimientoId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "Invalid establishment ID",
			})
			c.Abort()
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Not authenticated",
			})
			c.Abort()
			return
		}

		hasAccess, err := store.HasAccess(c.Request.Context(), userID, establecimientoID)
		if err != nil {
			log.Printf("[EstablishmentMiddleware] access check failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: "Internal server error",
			})
			c.Abort()
			return
		}
		if !hasAccess {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Forbidden",
				Message: "Acceso denegado a este establecimiento.",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeyEstablecimientoID, establecimientoID)
		c.Next()
	}
}

// AdminMiddleware is the platform-admin stage. It bypasses tenancy:
// establishment owners without the stored admin role are rejected.
func AdminMiddleware(store AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Not authenticated",
			})
			c.Abort()
			return
		}

		isAdmin, err := store.IsPlatformAdmin(c.Request.Context(), userID)
		if err != nil {
			log.Printf("[AdminMiddleware] admin check failed: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: "Internal server error",
			})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Forbidden",
				Message: "Se requieren privilegios de administrador.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// claimInt reads a numeric claim; JSON numbers arrive as float64.
func claimInt(claims jwt.MapClaims, key string) (int, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func userIDFromContext(c *gin.Context) (int, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func establishmentIDFromContext(c *gin.Context) (int, bool) {
	v, exists := c.Get(ContextKeyEstablecimientoID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
