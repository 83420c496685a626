package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agromex/livestock-service/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", db.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get animal: %w", db.ErrNotFound), http.StatusNotFound},
		{"duplicate tag", db.ErrDuplicateTag, http.StatusConflict},
		{"duplicate membership", db.ErrDuplicateMembership, http.StatusConflict},
		{"duplicate production date", db.ErrDuplicateDateEntry, http.StatusConflict},
		{"duplicate email", db.ErrDuplicateEmail, http.StatusConflict},
		{"store unavailable", fmt.Errorf("failed to query herds: %w", db.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unknown error is opaque", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondStoreError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				// Internal details must never leak to the client.
				assert.NotContains(t, w.Body.String(), tt.err.Error())
			}
		})
	}
}
