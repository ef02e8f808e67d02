package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"villa-predictor/internal/model"
	"villa-predictor/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// schema creates the reference villa table; features is the 8-d search vector
const schema = `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS villa_listings (
		id               BIGSERIAL PRIMARY KEY,
		listing_id       TEXT UNIQUE NOT NULL,
		title            TEXT,
		location         TEXT,
		url              TEXT,
		nightly_price    NUMERIC(10,2) NOT NULL,
		bedrooms         INTEGER NOT NULL,
		bathrooms        INTEGER NOT NULL,
		beach_distance_m INTEGER NOT NULL,
		pool             TEXT NOT NULL,
		ocean_view       TEXT NOT NULL,
		garden_size      TEXT NOT NULL,
		ac_rooms         INTEGER NOT NULL,
		wifi_quality     TEXT NOT NULL,
		amenities        JSONB,
		features         vector(8) NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_villa_listings_price ON villa_listings (nightly_price);
`

const listingColumns = `
	id, listing_id, title, location, url, nightly_price::float8 AS nightly_price,
	bedrooms, bathrooms, beach_distance_m, pool, ocean_view, garden_size,
	ac_rooms, wifi_quality, amenities, features, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// Ensure PostgresRepository implements service.ListingStore
var _ service.ListingStore = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the reference villa table if it doesn't exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// NearestListings returns the reference villas closest to the search vector (L2)
func (r *PostgresRepository) NearestListings(ctx context.Context, vector pgvector.Vector, limit int) ([]model.VillaListing, error) {
	query := fmt.Sprintf(`
		SELECT %s, features <-> $1 AS distance
		FROM villa_listings
		ORDER BY features <-> $1, nightly_price
		LIMIT $2
	`, listingColumns)

	var listings []model.VillaListing
	if err := r.db.SelectContext(ctx, &listings, query, vector, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch comparable villas: %w", err)
	}
	return listings, nil
}

// GetListingByID retrieves a single reference villa by its listing ID
func (r *PostgresRepository) GetListingByID(ctx context.Context, listingID string) (*model.VillaListing, error) {
	var listing model.VillaListing
	query := fmt.Sprintf(`SELECT %s FROM villa_listings WHERE listing_id = $1`, listingColumns)

	err := r.db.GetContext(ctx, &listing, query, listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// BatchUpsertListings inserts or updates reference villas in one transaction
func (r *PostgresRepository) BatchUpsertListings(ctx context.Context, listings []model.VillaListing) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO villa_listings (
			listing_id, title, location, url, nightly_price,
			bedrooms, bathrooms, beach_distance_m, pool, ocean_view,
			garden_size, ac_rooms, wifi_quality, amenities, features
		) VALUES (
			:listing_id, :title, :location, :url, :nightly_price,
			:bedrooms, :bathrooms, :beach_distance_m, :pool, :ocean_view,
			:garden_size, :ac_rooms, :wifi_quality, :amenities, :features
		)
		ON CONFLICT (listing_id) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			url = EXCLUDED.url,
			nightly_price = EXCLUDED.nightly_price,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			beach_distance_m = EXCLUDED.beach_distance_m,
			pool = EXCLUDED.pool,
			ocean_view = EXCLUDED.ocean_view,
			garden_size = EXCLUDED.garden_size,
			ac_rooms = EXCLUDED.ac_rooms,
			wifi_quality = EXCLUDED.wifi_quality,
			amenities = EXCLUDED.amenities,
			features = EXCLUDED.features,
			updated_at = NOW()
	`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for i := range listings {
		// A savepoint keeps one bad row from aborting the whole transaction
		if _, err := tx.ExecContext(ctx, "SAVEPOINT listing_row"); err != nil {
			errs = append(errs, fmt.Sprintf("listing_id %s: %v", listings[i].ListingID, err))
			break
		}
		if _, err := stmt.ExecContext(ctx, &listings[i]); err != nil {
			errs = append(errs, fmt.Sprintf("listing_id %s: %v", listings[i].ListingID, err))
			_, _ = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT listing_row")
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}
