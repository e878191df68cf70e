package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "seatreserve/internal/db"
)

var schema = []struct {
	table string
	ddl   string
}{
	{"bus_models", `
CREATE TABLE IF NOT EXISTS bus_models (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	number_of_seats SMALLINT UNSIGNED NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"buses", `
CREATE TABLE IF NOT EXISTS buses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_model_id BIGINT NOT NULL,
	KEY idx_bus_model (bus_model_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"stops", `
CREATE TABLE IF NOT EXISTS stops (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"routes", `
CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT ''
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"route_stops", `
CREATE TABLE IF NOT EXISTS route_stops (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	stop_id BIGINT NOT NULL,
	stop_index INT NOT NULL,
	UNIQUE KEY uniq_route_index (route_id, stop_index),
	KEY idx_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"trips", `
CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	bus_id BIGINT NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"seat_reservations", `
CREATE TABLE IF NOT EXISTS seat_reservations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	code CHAR(36) NOT NULL,
	trip_id BIGINT NOT NULL,
	seat_index INT NOT NULL,
	from_stop_index INT NOT NULL,
	to_stop_index INT NOT NULL,
	created_at DATETIME(6) NOT NULL,
	UNIQUE KEY uniq_code (code),
	KEY idx_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// EnsureSchema creates the tables that are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schema {
		if intdb.HasTable(ctx, db, t.table) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.table, err)
		}
	}
	return nil
}
