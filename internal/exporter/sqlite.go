package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	apierrors "zomatour/internal/errors"
	"zomatour/pkg/contracts/domain"
)

// RestaurantsTable is the table written by WriteSQLite
const RestaurantsTable = "restaurants"

var sqliteColumnTypes = map[string]string{
	"restaurant_id":               "INTEGER",
	"country_code":                "INTEGER",
	"longitude":                   "REAL",
	"latitude":                    "REAL",
	"average_cost_for_two":        "INTEGER",
	"has_table_booking":           "INTEGER",
	"has_online_delivery":         "INTEGER",
	"is_delivering_now":           "INTEGER",
	"price_range":                 "INTEGER",
	"aggregate_rating":            "REAL",
	"votes":                       "INTEGER",
	"dollar_average_cost_for_two": "REAL",
}

var sqliteIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_restaurants_id ON restaurants(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurants_country ON restaurants(country)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurants_city ON restaurants(city)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurants_cuisines ON restaurants(cuisines)`,
}

// WriteSQLite replaces the database at path with a restaurants table
func WriteSQLite(ctx context.Context, path string, restaurants []domain.Restaurant) error {
	if err := writeSQLite(ctx, path, restaurants); err != nil {
		return apierrors.NewStorageError("failed to write sqlite database", err).WithContext("path", path)
	}
	return nil
}

func writeSQLite(ctx context.Context, path string, restaurants []domain.Restaurant) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	defs := make([]string, len(RestaurantHeader))
	cols := make([]string, len(RestaurantHeader))
	for i, c := range RestaurantHeader {
		t := sqliteColumnTypes[c]
		if t == "" {
			t = "TEXT"
		}
		defs[i] = fmt.Sprintf("%q %s", c, t)
		cols[i] = fmt.Sprintf("%q", c)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE `+RestaurantsTable+` (`+strings.Join(defs, ",")+`)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+RestaurantsTable+` (`+strings.Join(cols, ",")+`) VALUES (`+ph+`)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range restaurants {
		if _, err := stmt.ExecContext(ctx, sqliteArgs(r)...); err != nil {
			return fmt.Errorf("failed to insert restaurant %d: %w", r.RestaurantID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	for _, idx := range sqliteIndexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func sqliteArgs(r domain.Restaurant) []interface{} {
	args := restaurantValues(r)
	// Flags are stored as 0/1
	args[12] = boolInt(r.HasTableBooking)
	args[13] = boolInt(r.HasOnlineDelivery)
	args[14] = boolInt(r.IsDeliveringNow)
	return args
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
