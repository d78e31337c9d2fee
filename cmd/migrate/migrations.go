package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		// Accounts
		&models.User{},

		// Identity federation
		&models.IdentityProvider{},
		&models.UserGroup{},
		&models.SLA{},

		// Provider topology
		&models.Location{},
		&models.Provider{},
		&models.Region{},
		&models.Project{},

		// Link tables
		&models.IdpOverride{},
		&models.RegionOverride{},
		&models.Administrates{},
		&models.Evaluates{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := enablePgcryptoExtension(db); err != nil {
		return err
	}

	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}

	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addRootProjectIndex,
		addForeignKeys,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// enablePgcryptoExtension ensures UUID generation is available
func enablePgcryptoExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addRootProjectIndex enforces at most one root project per provider
func addRootProjectIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_single_root
		ON projects(provider_id)
		WHERE is_root
	`).Error
}

// addForeignKeys wires referential integrity between the entity tables.
// Dependent configuration rows go away with their owner; shared entities
// in active use resist deletion.
func addForeignKeys(db *gorm.DB) error {
	type fk struct {
		name, table, column, ref, onDelete string
	}
	constraints := []fk{
		{"fk_regions_provider", "regions", "provider_id", "providers(id)", "RESTRICT"},
		{"fk_regions_location", "regions", "location_id", "locations(id)", "RESTRICT"},
		{"fk_projects_provider", "projects", "provider_id", "providers(id)", "RESTRICT"},
		{"fk_projects_sla", "projects", "sla_id", "slas(id)", "RESTRICT"},
		{"fk_user_groups_idp", "user_groups", "idp_id", "identity_providers(id)", "RESTRICT"},
		{"fk_slas_user_group", "slas", "user_group_id", "user_groups(id)", "RESTRICT"},
		{"fk_idp_overrides_provider", "idp_overrides", "provider_id", "providers(id)", "CASCADE"},
		{"fk_idp_overrides_idp", "idp_overrides", "idp_id", "identity_providers(id)", "RESTRICT"},
		{"fk_region_overrides_project", "region_overrides", "project_id", "projects(id)", "CASCADE"},
		{"fk_region_overrides_region", "region_overrides", "region_id", "regions(id)", "RESTRICT"},
		{"fk_administrates_user", "administrates", "user_id", "users(id)", "CASCADE"},
		{"fk_administrates_provider", "administrates", "provider_id", "providers(id)", "CASCADE"},
		{"fk_evaluates_user", "evaluates", "user_id", "users(id)", "CASCADE"},
		{"fk_evaluates_provider", "evaluates", "provider_id", "providers(id)", "CASCADE"},
	}

	for _, c := range constraints {
		stmt := fmt.Sprintf(`
			DO $$ BEGIN
				ALTER TABLE %s
					ADD CONSTRAINT %s FOREIGN KEY (%s)
					REFERENCES %s ON DELETE %s;
			EXCEPTION
				WHEN duplicate_object THEN NULL;
			END $$
		`, c.table, c.name, c.column, c.ref, c.onDelete)
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
