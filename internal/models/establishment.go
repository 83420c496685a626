package models

import (
	"time"
)

// Establishment is the tenant boundary: every herd, animal and event row
// belongs to exactly one establishment and is only reachable by users
// holding a role on it.
type Establishment struct {
	ID            int       `json:"id"`
	Nombre        string    `json:"nombre"`
	NumeroOficial *string   `json:"numero_oficial,omitempty"`
	PropietarioID int       `json:"propietario_id"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// CreateEstablishmentRequest is the payload for POST /api/establecimientos
type CreateEstablishmentRequest struct {
	Nombre        string  `json:"nombre" binding:"required"`
	NumeroOficial *string `json:"numero_oficial,omitempty"`
}

// TenancyRole links a user to an establishment. The composite primary key
// (usuario, establecimiento) means a user holds at most one role per tenant.
type TenancyRole struct {
	UsuarioID         int    `json:"usuario_id"`
	EstablecimientoID int    `json:"establecimiento_id"`
	Rol               string `json:"rol"`
}

// RolPropietario is granted to the creator when an establishment is created.
const RolPropietario = "propietario"

// GrantRoleRequest adds a member to an establishment by email.
type GrantRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Rol   string `json:"rol" binding:"required"`
}

// AdminEstablishment is the platform-admin listing row, joined with the
// owner's email.
type AdminEstablishment struct {
	ID               int     `json:"id"`
	Nombre           string  `json:"nombre"`
	NumeroOficial    *string `json:"numero_oficial,omitempty"`
	PropietarioEmail string  `json:"propietario_email"`
}
