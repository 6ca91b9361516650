package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kznhealth/queue-booking/internal/db"
	"github.com/kznhealth/queue-booking/internal/identity"
	"github.com/kznhealth/queue-booking/internal/scheduling"
)

// All seeded accounts share one demo password so the hash is computed once.
const demoPassword = "Passw0rd!"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	passwordHash, err := identity.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("hash demo password: %v", err)
	}

	if err := seedPractitioners(context.Background(), pool, 20, passwordHash); err != nil {
		log.Fatalf("seed practitioners: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 200, passwordHash); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedPractitioners(ctx context.Context, pool *pgxpool.Pool, count int, passwordHash string) error {
	log.Printf("seeding %d practitioners", count)

	specialties := []string{
		"General Practitioner",
		"Family Doctor",
		"Pediatrics",
		"Cardiology",
		"Dermatology",
		"Orthopedics",
		"Psychiatry",
		"ENT",
	}

	workHours := scheduling.WorkHours{
		"monday":    {Start: "08:00", End: "16:00"},
		"tuesday":   {Start: "08:00", End: "16:00"},
		"wednesday": {Start: "08:00", End: "16:00"},
		"thursday":  {Start: "08:00", End: "16:00"},
		"friday":    {Start: "08:00", End: "13:00"},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO practitioners (id, practice_number, full_name, specialty, work_hours, password_hash, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, uuid.New(), gofakeit.Numerify("MP#######"), "Dr. "+gofakeit.Name(), specialty, workHours, passwordHash)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int, passwordHash string) error {
	log.Printf("seeding %d patients", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		language := identity.Languages[gofakeit.Number(0, len(identity.Languages)-1)]
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		)

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, id_number, full_name, date_of_birth, language, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, uuid.New(), gofakeit.Numerify("#############"), gofakeit.Name(), dob, language, passwordHash)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
