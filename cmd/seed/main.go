// Seed fills the database with a demo dataset: a product catalog, a client
// base and a year of sales, plus a default admin user for the API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vfg2006/sales-analytics-api/infrastructure/database"
	"github.com/vfg2006/sales-analytics-api/infrastructure/migration"
	"github.com/vfg2006/sales-analytics-api/internal/config"
)

const (
	productCount = 20
	clientCount  = 50
	saleCount    = 500

	adminEmail    = "admin@example.com"
	adminPassword = "change-me-on-first-login"

	randomSeed = 42 // fixed seed keeps reruns comparable
)

var categories = []string{"Electronics", "Clothing", "Food", "Books", "Sports"}

// price bands in cents per category, aligned with the slice above
var priceBands = [][2]int{
	{2000, 150000}, // Electronics
	{1000, 12000},  // Clothing
	{200, 3000},    // Food
	{500, 4500},    // Books
	{800, 25000},   // Sports
}

var productNames = []string{
	"Laptop Pro 15", "Wireless Mouse", "Mechanical Keyboard", "USB-C Hub",
	"Cotton T-Shirt", "Denim Jacket", "Running Shorts", "Wool Sweater",
	"Organic Coffee", "Dark Chocolate", "Olive Oil", "Green Tea",
	"Mystery Novel", "Cookbook Deluxe", "History Atlas", "Poetry Anthology",
	"Yoga Mat", "Tennis Racket", "Football", "Climbing Rope",
}

var cities = []string{
	"Paris", "Lyon", "Marseille", "Toulouse", "Nantes",
	"Bordeaux", "Lille", "Strasbourg", "Nice", "Rennes",
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()

	conn, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to the database")
	}
	defer conn.Close()

	if err := migration.Run(conn); err != nil {
		logrus.WithError(err).Fatal("failed to run database migrations")
	}

	rng := rand.New(rand.NewSource(randomSeed))
	start := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		prices, err := insertProducts(ctx, tx, conn, rng)
		if err != nil {
			return err
		}
		if err := insertClients(ctx, tx, conn, rng); err != nil {
			return err
		}
		if err := insertSales(ctx, tx, conn, rng, prices); err != nil {
			return err
		}
		return insertAdminUser(ctx, tx, conn)
	})
	if err != nil {
		logrus.WithError(err).Fatal("seeding failed, transaction rolled back")
	}

	logrus.WithFields(logrus.Fields{
		"products": productCount,
		"clients":  clientCount,
		"sales":    saleCount,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("database seeded")
}

func insertProducts(ctx context.Context, tx *sql.Tx, conn *database.Connection, rng *rand.Rand) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, productCount)

	for i := 0; i < productCount; i++ {
		productID := int64(i + 1)
		category := i / 4 // product names are grouped four per category
		band := priceBands[category]
		cents := rng.Intn(band[1]-band[0]) + band[0]
		price := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
		prices[productID] = price

		query, args, err := conn.Builder().
			Insert("products").
			Columns("product_id", "name", "category", "price", "stock").
			Values(productID, productNames[i], categories[category], price.StringFixed(2), rng.Intn(200)+10).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build product insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to insert product %d: %w", productID, err)
		}
	}

	logrus.WithField("count", productCount).Info("products inserted")
	return prices, nil
}

func insertClients(ctx context.Context, tx *sql.Tx, conn *database.Connection, rng *rand.Rand) error {
	for i := 0; i < clientCount; i++ {
		clientID := int64(i + 1)
		name := fmt.Sprintf("Client %03d", clientID)
		email := fmt.Sprintf("client%03d@example.com", clientID)
		registration := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(365))

		query, args, err := conn.Builder().
			Insert("clients").
			Columns("client_id", "name", "email", "city", "registration_date").
			Values(clientID, name, email, cities[rng.Intn(len(cities))], registration.Format(time.DateOnly)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build client insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert client %d: %w", clientID, err)
		}
	}

	logrus.WithField("count", clientCount).Info("clients inserted")
	return nil
}

func insertSales(ctx context.Context, tx *sql.Tx, conn *database.Connection, rng *rand.Rand, prices map[int64]decimal.Decimal) error {
	periodStart := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < saleCount; i++ {
		saleID := int64(i + 1)
		productID := int64(rng.Intn(productCount) + 1)
		clientID := int64(rng.Intn(clientCount) + 1)
		quantity := rng.Intn(5) + 1
		saleDate := periodStart.AddDate(0, 0, rng.Intn(365))
		amount := prices[productID].Mul(decimal.NewFromInt(int64(quantity)))

		query, args, err := conn.Builder().
			Insert("sales").
			Columns("sale_id", "product_id", "client_id", "sale_date", "quantity", "amount").
			Values(saleID, productID, clientID, saleDate.Format(time.DateOnly), quantity, amount.StringFixed(2)).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build sale insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert sale %d: %w", saleID, err)
		}
	}

	logrus.WithField("count", saleCount).Info("sales inserted")
	return nil
}

func insertAdminUser(ctx context.Context, tx *sql.Tx, conn *database.Connection) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash the admin password: %w", err)
	}

	query, args, err := conn.Builder().
		Insert("users").
		Columns("name", "email", "password_hash", "active").
		Values("Administrator", adminEmail, string(hash), true).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert the admin user: %w", err)
	}

	logrus.WithField("email", adminEmail).Info("admin user created")
	return nil
}
