package models

import (
	"time"
)

// HealthEvent is an append-only health fact about one animal.
type HealthEvent struct {
	ID                int       `json:"id"`
	VacaID            int       `json:"vaca_id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	FechaEvento       time.Time `json:"fecha_evento"`
	TipoEvento        string    `json:"tipo_evento"`
	Descripcion       string    `json:"descripcion"`
	Costo             *float64  `json:"costo,omitempty"`
	Observaciones     *string   `json:"observaciones,omitempty"`
}

// HealthEventRequest is the payload for POST .../salud
type HealthEventRequest struct {
	FechaEvento   string   `json:"fecha_evento" binding:"required"`
	TipoEvento    string   `json:"tipo_evento" binding:"required"`
	Descripcion   string   `json:"descripcion" binding:"required"`
	Costo         *float64 `json:"costo,omitempty"`
	Observaciones *string  `json:"observaciones,omitempty"`
}

// ReproductionEvent records an insemination, palpation or birth. The
// approximate flag marks dates estimated after the fact.
type ReproductionEvent struct {
	ID                int       `json:"id"`
	VacaID            int       `json:"vaca_id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	FechaEvento       time.Time `json:"fecha_evento"`
	FechaEsAproximada bool      `json:"fecha_es_aproximada"`
	TipoEvento        string    `json:"tipo_evento"`
	Detalle           *string   `json:"detalle,omitempty"`
	Inseminador       *string   `json:"inseminador,omitempty"`
	CriaIDOficial     *string   `json:"cria_id_oficial,omitempty"`
}

// ReproductionEventRequest is the payload for POST .../reproduccion
type ReproductionEventRequest struct {
	FechaEvento       string  `json:"fecha_evento" binding:"required"`
	FechaEsAproximada *bool   `json:"fecha_es_aproximada,omitempty"`
	TipoEvento        string  `json:"tipo_evento" binding:"required"`
	Detalle           *string `json:"detalle,omitempty"`
	Inseminador       *string `json:"inseminador,omitempty"`
	CriaIDOficial     *string `json:"cria_id_oficial,omitempty"`
}

// ProductionRecord holds one day's milk production. At most one record per
// (animal, date); the store rejects the losing writer on conflict.
type ProductionRecord struct {
	ID                int       `json:"id"`
	VacaID            int       `json:"vaca_id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	FechaRegistro     time.Time `json:"fecha_registro"`
	LitrosDia         float64   `json:"litros_dia"`
	CalidadGrasa      *float64  `json:"calidad_grasa,omitempty"`
	CalidadProteina   *float64  `json:"calidad_proteina,omitempty"`
}

// ProductionRecordRequest is the payload for POST .../produccion
type ProductionRecordRequest struct {
	FechaRegistro   string   `json:"fecha_registro" binding:"required"`
	LitrosDia       *float64 `json:"litros_dia" binding:"required"`
	CalidadGrasa    *float64 `json:"calidad_grasa,omitempty"`
	CalidadProteina *float64 `json:"calidad_proteina,omitempty"`
}

// AnimalPhoto references a stored image blob. URLFoto is opaque to the
// core: S3/CDN URL in production, a /uploads path in development.
type AnimalPhoto struct {
	ID                int       `json:"id"`
	VacaID            int       `json:"vaca_id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	URLFoto           string    `json:"url_foto"`
	Descripcion       *string   `json:"descripcion,omitempty"`
	FechaSubida       time.Time `json:"fecha_subida"`
}

// Alert is a derived, non-persisted notification. FechaAlerta is the
// generation date in YYYY-MM-DD.
type Alert struct {
	Tipo        string `json:"tipo"`
	Mensaje     string `json:"mensaje"`
	VacaID      int    `json:"vaca_id"`
	FechaAlerta string `json:"fecha_alerta"`
}
