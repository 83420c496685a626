package api

import (
	"net/http"
	"time"

	"github.com/agromex/livestock-service/internal/alerts"
	"github.com/agromex/livestock-service/internal/models"
	"github.com/gin-gonic/gin"
)

// AddHealthEvent handles POST .../vacas/:vacaId/salud
func (h *Handler) AddHealthEvent(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	var req models.HealthEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Fecha, tipo de evento y descripción son obligatorios para el registro de salud.",
		})
		return
	}

	ev, err := h.DB.AddHealthEvent(c.Request.Context(), establecimientoID, vacaID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registro de salud creado exitosamente.",
		"registro": ev,
	})
}

// ListHealthEvents handles GET .../vacas/:vacaId/salud
func (h *Handler) ListHealthEvents(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	events, err := h.DB.ListHealthEvents(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// AddReproductionEvent handles POST .../vacas/:vacaId/reproduccion
func (h *Handler) AddReproductionEvent(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	var req models.ReproductionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Fecha del evento y tipo de evento son obligatorios para el registro de reproducción.",
		})
		return
	}

	ev, err := h.DB.AddReproductionEvent(c.Request.Context(), establecimientoID, vacaID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registro de reproducción creado exitosamente.",
		"registro": ev,
	})
}

// ListReproductionEvents handles GET .../vacas/:vacaId/reproduccion
func (h *Handler) ListReproductionEvents(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	events, err := h.DB.ListReproductionEvents(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// AddProductionRecord handles POST .../vacas/:vacaId/produccion
func (h *Handler) AddProductionRecord(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	var req models.ProductionRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Fecha de registro y litros/día son obligatorios para el registro de producción.",
		})
		return
	}

	rec, err := h.DB.AddProductionRecord(c.Request.Context(), establecimientoID, vacaID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registro de producción creado exitosamente.",
		"registro": rec,
	})
}

// ListProductionRecords handles GET .../vacas/:vacaId/produccion
func (h *Handler) ListProductionRecords(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	records, err := h.DB.ListProductionRecords(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAlerts handles GET .../alertas. Alerts are recomputed on every
// request from current data; nothing is persisted.
func (h *Handler) GetAlerts(c *gin.Context) {
	establecimientoID, ok := establishmentIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Forbidden"})
		return
	}

	confs, err := h.DB.ListPregnancyConfirmations(c.Request.Context(), establecimientoID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts.Compute(confs, time.Now()))
}
