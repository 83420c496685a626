package db

import (
	"context"
	"fmt"

	"github.com/agromex/livestock-service/internal/models"
)

// AddPhoto records an uploaded image reference for an animal. The URL is
// opaque here; the storage layer decides what it points at.
func (db *Database) AddPhoto(ctx context.Context, establecimientoID, vacaID int, urlFoto string, descripcion *string) (*models.AnimalPhoto, error) {
	if err := db.requireAnimal(ctx, establecimientoID, vacaID); err != nil {
		return nil, err
	}

	var photo models.AnimalPhoto
	err := db.q.QueryRow(ctx, `
		INSERT INTO fotos_vacas (vaca_id, establecimiento_id, url_foto, descripcion)
		VALUES ($1, $2, $3, $4)
		RETURNING id, vaca_id, establecimiento_id, url_foto, descripcion, fecha_subida
	`, vacaID, establecimientoID, urlFoto, descripcion).Scan(
		&photo.ID, &photo.VacaID, &photo.EstablecimientoID, &photo.URLFoto, &photo.Descripcion, &photo.FechaSubida,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", translateError(err))
	}
	return &photo, nil
}

// ListPhotos returns the animal's photos, newest first.
func (db *Database) ListPhotos(ctx context.Context, establecimientoID, vacaID int) ([]models.AnimalPhoto, error) {
	rows, err := db.q.Query(ctx, `
		SELECT id, vaca_id, establecimiento_id, url_foto, descripcion, fecha_subida
		FROM fotos_vacas
		WHERE vaca_id = $1 AND establecimiento_id = $2
		ORDER BY fecha_subida DESC
	`, vacaID, establecimientoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", translateError(err))
	}
	defer rows.Close()

	photos := []models.AnimalPhoto{}
	for rows.Next() {
		var p models.AnimalPhoto
		if err := rows.Scan(&p.ID, &p.VacaID, &p.EstablecimientoID, &p.URLFoto, &p.Descripcion, &p.FechaSubida); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", translateError(err))
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", translateError(err))
	}
	return photos, nil
}
