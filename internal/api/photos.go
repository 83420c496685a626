package api

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agromex/livestock-service/internal/models"
	"github.com/gin-gonic/gin"
)

const maxPhotoSize = 10 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadAnimalPhoto handles POST .../vacas/:vacaId/fotos (multipart,
// field "file"). The image goes to S3 when configured, local disk
// otherwise; either way only the resulting URL is stored.
func (h *Handler) UploadAnimalPhoto(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: "No se proporcionó ningún archivo de imagen.",
		})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "File too large",
			Message: "El archivo supera el límite de 10MB.",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	// Sniff the real content type from the first 512 bytes.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read file content"})
		return
	}
	contentType := http.DetectContentType(buffer[:n])
	if !allowedPhotoTypes[contentType] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid file type",
			Message: "Solo se permiten imágenes.",
		})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to read file content"})
		return
	}

	var urlFoto string
	if h.Uploader.Enabled() {
		key := fmt.Sprintf("establecimientos/%d/vacas/%d/%d%s",
			establecimientoID, vacaID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
		urlFoto, err = h.Uploader.Upload(c.Request.Context(), key, contentType, file)
		if err != nil {
			log.Printf("S3 upload failed, falling back to local storage: %v", err)
			urlFoto, err = saveToLocal(vacaID, fileHeader, file)
		}
	} else {
		urlFoto, err = saveToLocal(vacaID, fileHeader, file)
	}
	if err != nil {
		log.Printf("photo upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to upload file"})
		return
	}

	descripcion := nilIfEmpty(c.PostForm("descripcion"))
	photo, err := h.DB.AddPhoto(c.Request.Context(), establecimientoID, vacaID, urlFoto, descripcion)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Foto subida y registrada exitosamente.",
		"foto":    photo,
	})
}

// ListAnimalPhotos handles GET .../vacas/:vacaId/fotos
func (h *Handler) ListAnimalPhotos(c *gin.Context) {
	establecimientoID, vacaID, ok := scopedIDs(c)
	if !ok {
		return
	}

	photos, err := h.DB.ListPhotos(c.Request.Context(), establecimientoID, vacaID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// saveToLocal writes the photo under ./uploads for development; the
// router serves that directory statically.
func saveToLocal(vacaID int, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	uploadsDir := "./uploads/vacas"
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filename := fmt.Sprintf("%d_%d%s", vacaID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(filepath.Join(uploadsDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return "/uploads/vacas/" + filename, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
