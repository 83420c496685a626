package db

import (
	"context"
	"fmt"
	"log"
)

// schemaStatements declare the livestock tables. Unique constraints carry
// fixed names because error translation keys on them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		nombre_completo VARCHAR(150),
		platform_role VARCHAR(20) NOT NULL DEFAULT 'user',
		fecha_creacion TIMESTAMPTZ DEFAULT NOW(),
		CONSTRAINT usuarios_email_key UNIQUE (email)
	);`,
	`CREATE TABLE IF NOT EXISTS establecimientos (
		id SERIAL PRIMARY KEY,
		nombre VARCHAR(150) NOT NULL,
		numero_oficial VARCHAR(50),
		propietario_id INTEGER NOT NULL REFERENCES usuarios(id),
		fecha_creacion TIMESTAMPTZ DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS usuario_establecimiento_roles (
		usuario_id INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		rol VARCHAR(50) NOT NULL,
		CONSTRAINT usuario_establecimiento_roles_pkey PRIMARY KEY (usuario_id, establecimiento_id)
	);`,
	`CREATE TABLE IF NOT EXISTS rodeos (
		id SERIAL PRIMARY KEY,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		nombre VARCHAR(100) NOT NULL,
		descripcion TEXT,
		fecha_creacion TIMESTAMPTZ DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS vacas (
		id SERIAL PRIMARY KEY,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		caravana_senasa VARCHAR(50),
		caravana_interna VARCHAR(50),
		nombre VARCHAR(100),
		raza VARCHAR(50),
		fecha_nacimiento DATE,
		estado_actual VARCHAR(50),
		estado_reproductivo VARCHAR(50),
		rodeo_id INTEGER REFERENCES rodeos(id),
		madre_id INTEGER REFERENCES vacas(id),
		padre_nombre VARCHAR(100),
		fecha_ingreso DATE DEFAULT CURRENT_DATE,
		activa BOOLEAN DEFAULT TRUE,
		CONSTRAINT vacas_caravana_senasa_key UNIQUE (establecimiento_id, caravana_senasa),
		CONSTRAINT vacas_caravana_interna_key UNIQUE (establecimiento_id, caravana_interna)
	);`,
	`CREATE TABLE IF NOT EXISTS historial_movimientos (
		id SERIAL PRIMARY KEY,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		vaca_id INTEGER NOT NULL REFERENCES vacas(id) ON DELETE CASCADE,
		rodeo_origen_id INTEGER REFERENCES rodeos(id),
		rodeo_destino_id INTEGER NOT NULL REFERENCES rodeos(id),
		fecha_movimiento TIMESTAMPTZ DEFAULT NOW(),
		motivo TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS registros_produccion (
		id SERIAL PRIMARY KEY,
		vaca_id INTEGER NOT NULL REFERENCES vacas(id) ON DELETE CASCADE,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		fecha_registro DATE NOT NULL,
		litros_dia DECIMAL(5, 2) NOT NULL,
		calidad_grasa DECIMAL(4, 2),
		calidad_proteina DECIMAL(4, 2),
		CONSTRAINT registros_produccion_vaca_fecha_key UNIQUE (vaca_id, fecha_registro)
	);`,
	`CREATE TABLE IF NOT EXISTS registros_salud (
		id SERIAL PRIMARY KEY,
		vaca_id INTEGER NOT NULL REFERENCES vacas(id) ON DELETE CASCADE,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		fecha_evento DATE NOT NULL,
		tipo_evento VARCHAR(50) NOT NULL,
		descripcion TEXT NOT NULL,
		costo DECIMAL(10, 2),
		observaciones TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS registros_reproduccion (
		id SERIAL PRIMARY KEY,
		vaca_id INTEGER NOT NULL REFERENCES vacas(id) ON DELETE CASCADE,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		fecha_evento DATE NOT NULL,
		fecha_es_aproximada BOOLEAN DEFAULT FALSE,
		tipo_evento VARCHAR(50) NOT NULL,
		detalle TEXT,
		inseminador VARCHAR(100),
		cria_id_oficial VARCHAR(50)
	);`,
	`CREATE TABLE IF NOT EXISTS fotos_vacas (
		id SERIAL PRIMARY KEY,
		vaca_id INTEGER NOT NULL REFERENCES vacas(id) ON DELETE CASCADE,
		establecimiento_id INTEGER NOT NULL REFERENCES establecimientos(id) ON DELETE CASCADE,
		url_foto VARCHAR(255) NOT NULL,
		descripcion TEXT,
		fecha_subida TIMESTAMPTZ DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vacas_establecimiento ON vacas(establecimiento_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rodeos_establecimiento ON rodeos(establecimiento_id);`,
	`CREATE INDEX IF NOT EXISTS idx_movimientos_vaca ON historial_movimientos(vaca_id);`,
	`CREATE INDEX IF NOT EXISTS idx_produccion_vaca ON registros_produccion(vaca_id);`,
	`CREATE INDEX IF NOT EXISTS idx_salud_vaca ON registros_salud(vaca_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reproduccion_vaca ON registros_reproduccion(vaca_id);`,
	`CREATE INDEX IF NOT EXISTS idx_fotos_vaca ON fotos_vacas(vaca_id);`,
}

// InitSchema creates/verifies the livestock tables. Safe to call at
// startup; idempotent.
func (db *Database) InitSchema(ctx context.Context) error {
	tx, err := db.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", translateError(err))
	}
	defer tx.Rollback(ctx)

	for _, s := range schemaStatements {
		if _, err := tx.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec schema: %w", translateError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema tx: %w", translateError(err))
	}

	log.Println("[LIVESTOCK-DB] Schema verified")
	return nil
}

// EnsurePlatformAdmin promotes an already-registered account to the
// platform admin role. No-op when the email is empty or not registered;
// registration itself also assigns the role when the emails match, so this
// only matters for accounts created before the variable was set.
func (db *Database) EnsurePlatformAdmin(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	tag, err := db.q.Exec(ctx,
		`UPDATE usuarios SET platform_role = 'admin' WHERE email = $1 AND platform_role <> 'admin'`,
		email)
	if err != nil {
		return fmt.Errorf("failed to promote platform admin: %w", translateError(err))
	}
	if tag.RowsAffected() > 0 {
		log.Printf("[LIVESTOCK-DB] Promoted %s to platform admin", email)
	}
	return nil
}
