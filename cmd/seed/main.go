package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/pfa-screening-api/config"
	"github.com/oksasatya/pfa-screening-api/pkg/helpers"
)

// seed inserts a verified demo user so /login works without a mailbox.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := flag.String("email", "demo@pfa.local", "demo user email")
	password := flag.String("password", "password123", "demo user password")
	name := flag.String("name", "Demo User", "demo user name")
	flag.Parse()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, is_verified, verification_token)
		VALUES ($1, $2, $3, TRUE, NULL)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    name = EXCLUDED.name,
		    is_verified = TRUE,
		    verification_token = NULL,
		    updated_at = now()
		RETURNING id::text
	`, *email, hash, *name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded verified user: id=%s email=%s name=%s password=%s\n", id, *email, *name, *password)
}
