package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/agromex/livestock-service/internal/db"
	"github.com/agromex/livestock-service/internal/models"
	"github.com/agromex/livestock-service/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handler holds the database connection and handles HTTP requests
type Handler struct {
	DB       *db.Database
	Uploader *storage.S3Uploader
}

// NewHandler creates a new handler instance
func NewHandler(database *db.Database, uploader *storage.S3Uploader) *Handler {
	return &Handler{
		DB:       database,
		Uploader: uploader,
	}
}

// Health endpoint for health checks (readiness)
func (h *Handler) Health(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Database not initialized",
			Message: "Service starting up; DB unavailable",
		})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.DB.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Database connection failed",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "livestock-service",
		"timestamp": time.Now().UTC(),
	})
}

// respondStoreError maps the ledger's typed errors onto HTTP responses.
// Raw store errors never reach the client.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Message: "El recurso no existe o no pertenece a este establecimiento.",
		})
	case errors.Is(err, db.ErrDuplicateTag):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Duplicate tag",
			Message: "Ya existe una vaca con la misma caravana SENASA o Interna en este establecimiento.",
		})
	case errors.Is(err, db.ErrDuplicateMembership):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Duplicate membership",
			Message: "El usuario ya tiene un rol en este establecimiento.",
		})
	case errors.Is(err, db.ErrDuplicateDateEntry):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Duplicate date entry",
			Message: "Ya existe un registro de producción para esa fecha.",
		})
	case errors.Is(err, db.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Duplicate email",
			Message: "El email ya está registrado.",
		})
	case errors.Is(err, db.ErrStoreUnavailable):
		log.Printf("store unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Service unavailable",
			Message: "El servicio no está disponible en este momento. Intente nuevamente.",
		})
	default:
		log.Printf("store error: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

// CreateEstablishment handles POST /api/establecimientos. The insert and
// the creator's owner-role grant are one transaction in the ledger.
func (h *Handler) CreateEstablishment(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req models.CreateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "El nombre del establecimiento es un campo obligatorio.",
		})
		return
	}

	est, err := h.DB.CreateEstablishment(c.Request.Context(), userID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":         "Establecimiento creado exitosamente.",
		"establecimiento": est,
	})
}

// GrantRole handles POST /api/establecimientos/:establecimientoId/usuarios.
// Tenancy-gated: any member may currently add another user by email.
func (h *Handler) GrantRole(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	var req models.GrantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Email y rol son obligatorios.",
		})
		return
	}

	userID, err := h.DB.GetUserIDByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := h.DB.GrantRole(c.Request.Context(), userID, establecimientoID, req.Rol); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Rol asignado exitosamente.",
		"rol": models.TenancyRole{
			UsuarioID:         userID,
			EstablecimientoID: establecimientoID,
			Rol:               req.Rol,
		},
	})
}

// CreateHerd handles POST .../rodeos
func (h *Handler) CreateHerd(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	var req models.CreateHerdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "El nombre del rodeo es obligatorio.",
		})
		return
	}

	herd, err := h.DB.CreateHerd(c.Request.Context(), establecimientoID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Rodeo creado exitosamente.",
		"rodeo":   herd,
	})
}

// ListHerds handles GET .../rodeos
func (h *Handler) ListHerds(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	herds, err := h.DB.ListHerds(c.Request.Context(), establecimientoID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, herds)
}
