package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminListEstablishments handles GET /api/admin/establecimientos.
// Platform-admin only; returns every tenant with its owner's email.
func (h *Handler) AdminListEstablishments(c *gin.Context) {
	ests, err := h.DB.AdminListEstablishments(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, ests)
}
