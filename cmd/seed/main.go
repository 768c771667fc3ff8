// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"caixa/internal/core/id"
	"caixa/internal/core/types"
	"caixa/internal/domain/auth"
	"caixa/internal/domain/catalog/product"
	"caixa/internal/infrastructure/storage/postgres"
	"caixa/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seed admin user
	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@caixa.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, name, role,
			is_active, failed_login_attempts, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'Store Admin', $4, true, 0, $5, $5, 1)
	`, id.New(), adminEmail, string(passwordHash), auth.RoleAdmin, now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

type demoProduct struct {
	code     string
	name     string
	barcode  string
	category string
	unit     product.Unit
	price    string
	cost     string
	stock    int64
	minStock int64
}

var demoProducts = []demoProduct{
	{"PRD-2026-00001", "Rice 5kg", "7891234560011", "grocery", product.UnitPiece, "8.90", "6.20", 50, 10},
	{"PRD-2026-00002", "Black Beans 1kg", "7891234560028", "grocery", product.UnitPiece, "7.50", "5.10", 40, 10},
	{"PRD-2026-00003", "Soybean Oil 900ml", "7891234560035", "grocery", product.UnitPiece, "6.99", "5.40", 36, 12},
	{"PRD-2026-00004", "Sugar 1kg", "7891234560042", "grocery", product.UnitPiece, "4.25", "2.90", 60, 15},
	{"PRD-2026-00005", "Ground Coffee 500g", "7891234560059", "grocery", product.UnitPiece, "16.90", "12.30", 24, 8},
	{"PRD-2026-00006", "Whole Milk 1L", "7891234560066", "dairy", product.UnitPiece, "5.49", "4.10", 48, 20},
	{"PRD-2026-00007", "Mozzarella", "", "deli", product.UnitKg, "39.90", "28.50", 12, 3},
	{"PRD-2026-00008", "Ham", "", "deli", product.UnitKg, "29.90", "21.00", 8, 2},
	{"PRD-2026-00009", "Detergent 500ml", "7891234560097", "cleaning", product.UnitPiece, "2.99", "1.80", 30, 10},
	{"PRD-2026-00010", "Toilet Paper 4pk", "7891234560103", "hygiene", product.UnitPiece, "8.49", "5.90", 25, 8},
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	for _, p := range demoProducts {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM cat_products WHERE code = $1)`,
			p.code,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check product %s: %w", p.code, err)
		}
		if exists {
			continue
		}

		var barcode *string
		if p.barcode != "" {
			barcode = &p.barcode
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO cat_products (
				id, code, name, barcode, category, unit,
				price, cost, stock, min_stock, active, deletion_mark, version
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, false, 1)
		`, id.New(), p.code, p.name, barcode, p.category, string(p.unit),
			types.MustMoney(p.price), types.MustMoney(p.cost),
			types.NewQuantityFromInt64(p.stock), types.NewQuantityFromInt64(p.minStock))
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.code, err)
		}
	}
	log.Infow("demo products seeded", "count", len(demoProducts))

	// One walk-in demo customer
	var customerExists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cat_customers WHERE code = 'CLI-2026-00001')`,
	).Scan(&customerExists)
	if err != nil {
		return fmt.Errorf("check demo customer: %w", err)
	}
	if !customerExists {
		phone := "(11) 98765-4321"
		_, err = pool.Exec(ctx, `
			INSERT INTO cat_customers (id, code, name, phone, deletion_mark, version)
			VALUES ($1, 'CLI-2026-00001', 'Maria dos Santos', $2, false, 1)
		`, id.New(), phone)
		if err != nil {
			return fmt.Errorf("insert demo customer: %w", err)
		}
		log.Info("demo customer seeded")
	}

	return nil
}
