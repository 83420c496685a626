package models

import (
	"time"
)

// Herd (rodeo) is a named grouping of animals inside one establishment.
type Herd struct {
	ID                int       `json:"id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	Nombre            string    `json:"nombre"`
	Descripcion       *string   `json:"descripcion,omitempty"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
}

// CreateHerdRequest is the payload for POST .../rodeos
type CreateHerdRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Descripcion *string `json:"descripcion,omitempty"`
}

// Animal is the central ledger entity. The two tag codes (caravana SENASA
// and caravana interna) are each unique per establishment, enforced by the
// store so concurrent writers cannot race past the check.
type Animal struct {
	ID                 int        `json:"id"`
	EstablecimientoID  int        `json:"establecimiento_id"`
	CaravanaSenasa     *string    `json:"caravana_senasa,omitempty"`
	CaravanaInterna    string     `json:"caravana_interna"`
	Nombre             *string    `json:"nombre,omitempty"`
	Raza               *string    `json:"raza,omitempty"`
	FechaNacimiento    *time.Time `json:"fecha_nacimiento,omitempty"`
	EstadoActual       string     `json:"estado_actual"`
	EstadoReproductivo *string    `json:"estado_reproductivo,omitempty"`
	RodeoID            *int       `json:"rodeo_id,omitempty"`
	MadreID            *int       `json:"madre_id,omitempty"`
	PadreNombre        *string    `json:"padre_nombre,omitempty"`
	FechaIngreso       time.Time  `json:"fecha_ingreso"`
	Activa             bool       `json:"activa"`
}

// AnimalRequest is the payload for creating an animal and for the full-row
// PUT. Update is replace semantics: every field is resupplied, omitted
// optionals are cleared. Date fields travel as "2006-01-02" strings.
type AnimalRequest struct {
	CaravanaSenasa     *string `json:"caravana_senasa,omitempty"`
	CaravanaInterna    string  `json:"caravana_interna" binding:"required"`
	Nombre             *string `json:"nombre,omitempty"`
	Raza               *string `json:"raza,omitempty"`
	FechaNacimiento    *string `json:"fecha_nacimiento,omitempty"`
	EstadoActual       string  `json:"estado_actual" binding:"required"`
	EstadoReproductivo *string `json:"estado_reproductivo,omitempty"`
	RodeoID            *int    `json:"rodeo_id" binding:"required"`
	MadreID            *int    `json:"madre_id,omitempty"`
	PadreNombre        *string `json:"padre_nombre,omitempty"`
	FechaIngreso       *string `json:"fecha_ingreso,omitempty"`
	Activa             *bool   `json:"activa,omitempty"`
}

// MovementRecord is an immutable log entry for a herd transfer. Origin is
// nil when the animal was previously unassigned.
type MovementRecord struct {
	ID                int       `json:"id"`
	EstablecimientoID int       `json:"establecimiento_id"`
	VacaID            int       `json:"vaca_id"`
	RodeoOrigenID     *int      `json:"rodeo_origen_id,omitempty"`
	RodeoDestinoID    int       `json:"rodeo_destino_id"`
	FechaMovimiento   time.Time `json:"fecha_movimiento"`
	Motivo            *string   `json:"motivo,omitempty"`
}

// MovementRequest is the payload for POST .../vacas/:vacaId/movimientos
type MovementRequest struct {
	RodeoDestinoID int     `json:"rodeo_destino_id" binding:"required"`
	Motivo         *string `json:"motivo,omitempty"`
}
