package api

import (
	"net/http"
	"strconv"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/gin-gonic/gin"
)

// scopedIDs reads the context-bound establishment and the :vacaId path
// parameter. Returns false after writing the error response.
func scopedIDs(c *gin.Context) (establecimientoID, vacaID int, ok bool) {
	establecimientoID, ok = establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return 0, 0, false
	}
	vacaID, err := strconv.Atoi(c.Param("vacaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid animal ID"})
		return 0, 0, false
	}
	return establecimientoID, vacaID, true
}

// CreateAnimal handles POST .../vacas. Internal tag, lifecycle status and
// herd are required.
func (h *Handler) CreateAnimal(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	var req models.AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Caravana Interna, Estado Actual y Rodeo son obligatorios.",
		})
		return
	}

	animal, err := h.DB.CreateAnimal(c.Request.Context(), establecimientoID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Vaca creada exitosamente.",
		"vaca":    animal,
	})
}

// ListAnimals handles GET .../vacas (active animals only).
func (h *Handler) ListAnimals(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	animals, err := h.DB.ListAnimals(c.Request.Context(), establecimientoID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, animals)
}

// GetAnimal handles GET .../vacas/:vacaId
func (h *Handler) GetAnimal(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	animal, err := h.DB.GetAnimal(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// UpdateAnimal handles PUT .../vacas/:vacaId with full-row replace
// semantics: all fields must be resupplied.
func (h *Handler) UpdateAnimal(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	var req models.AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Caravana Interna, Estado Actual y Rodeo son obligatorios.",
		})
		return
	}

	animal, err := h.DB.UpdateAnimal(c.Request.Context(), establecimientoID, vacaID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Vaca actualizada exitosamente.",
		"vaca":    animal,
	})
}

// DeleteAnimal handles DELETE .../vacas/:vacaId. Logical delete: the
// active flag is cleared, history rows stay.
func (h *Handler) DeleteAnimal(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	if err := h.DB.DeactivateAnimal(c.Request.Context(), establecimientoID, vacaID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vaca marcada como inactiva exitosamente."})
}

// MoveAnimal handles POST .../vacas/:vacaId/movimientos
func (h *Handler) MoveAnimal(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	var req models.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "El rodeo de destino es obligatorio.",
		})
		return
	}

	mov, err := h.DB.MoveAnimal(c.Request.Context(), establecimientoID, vacaID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Movimiento registrado exitosamente.",
		"movimiento": mov,
	})
}

// ListMovements handles GET .../vacas/:vacaId/movimientos
func (h *Handler) ListMovements(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	movs, err := h.DB.ListMovements(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, movs)
}
