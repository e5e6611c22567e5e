package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/gharbhada/gharbhada-api/config"
	"github.com/gharbhada/gharbhada-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminEmail := "admin@gharbhada.com"
	adminPassword := "admin12345"
	hash, err := helpers.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, 'admin', 'active')
		ON CONFLICT (lower(email)) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, adminEmail, hash, "GharBhada Admin", "9800000000").Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, adminEmail, adminPassword)

	ownerEmail := "anil@test.com"
	ownerHash, err := helpers.HashPassword("Password123")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, 'user', 'active')
		ON CONFLICT (lower(email)) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, ownerEmail, ownerHash, "Anil KC", "9866052045").Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	fmt.Printf("seeded demo user: id=%s email=%s\n", ownerID, ownerEmail)

	listings := []struct {
		title, city, address, ptype string
		price                       float64
		bedrooms                    int
	}{
		{"Sunny room near Patan Durbar Square", "Lalitpur", "Mangalbazar, Patan", "room", 8000, 1},
		{"2BHK flat in Baneshwor", "Kathmandu", "Mid Baneshwor", "flat", 25000, 2},
		{"Full house with garden in Bhaktapur", "Bhaktapur", "Suryabinayak", "house", 45000, 4},
	}
	for _, l := range listings {
		var id string
		err := db.QueryRow(`
			INSERT INTO listings (owner_id, title, description, city, address, price_per_month, bedrooms, property_type, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'available')
			RETURNING id
		`, ownerID, l.title, "Seeded listing for local development.", l.city, l.address, l.price, l.bedrooms, l.ptype).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed listing %q: %v", l.title, err)
		}
		fmt.Printf("seeded listing: id=%s title=%q city=%s\n", id, l.title, l.city)
	}
}
