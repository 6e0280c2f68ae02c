package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/linkai-agency/cms/models"
)

const bcryptCost = 12

// Seed creates the first-run rows if they do not exist: one super admin
// account and content version 1 in both partitions with the default
// document. Seeded content rows carry no author.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	if err := SeedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	return SeedContent(db)
}

// SeedAdmin creates the super admin account if no super admin exists.
func SeedAdmin(db *sql.DB, email, password string) error {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE role = ?", models.RoleSuperAdmin).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for super admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
		email, string(hash), models.RoleSuperAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	log.Printf("Default super admin created: %s", email)
	return nil
}

// SeedContent creates content version 1 in both partitions if the snapshot
// log is empty.
func SeedContent(db *sql.DB) error {
	var id int64
	err := db.QueryRow("SELECT id FROM content_versions LIMIT 1").Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for content: %w", err)
	}

	content, err := json.Marshal(models.DefaultContent())
	if err != nil {
		return fmt.Errorf("failed to serialize default content: %w", err)
	}

	for _, state := range []string{models.StateDraft, models.StatePublished} {
		_, err = db.Exec(
			"INSERT INTO content_versions (content, state, version, created_by) VALUES (?, ?, 1, NULL)",
			string(content), state,
		)
		if err != nil {
			return fmt.Errorf("failed to seed %s content: %w", state, err)
		}
	}

	log.Println("Default content created")
	return nil
}
