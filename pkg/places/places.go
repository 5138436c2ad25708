// Package places stores named places that were resolved through Photon, so
// that a label like "office" keeps pointing to the same coordinates.
package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/manzanit0/photon/pkg/photon"
)

const Schema = `
CREATE TABLE IF NOT EXISTS places (
	name         TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	osm_id       BIGINT NOT NULL,
	osm_type     TEXT NOT NULL,
	type         TEXT NOT NULL,
	display_name TEXT,
	country      TEXT,
	country_code TEXT,
	state        TEXT,
	city         TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type Place struct {
	Name        string    `json:"name"`
	Query       string    `json:"query"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OsmID       uint64    `json:"osm_id"`
	OsmType     string    `json:"osm_type"`
	Type        string    `json:"type"`
	DisplayName string    `json:"display_name,omitempty"`
	Country     string    `json:"country,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	State       string    `json:"state,omitempty"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromFeature builds the place stored under name for a search hit.
func FromFeature(name, query, displayName string, f photon.Feature) *Place {
	return &Place{
		Name:        name,
		Query:       query,
		Latitude:    f.Coords.Lat,
		Longitude:   f.Coords.Lon,
		OsmID:       f.OsmID,
		OsmType:     f.OsmType.Code(),
		Type:        f.Type,
		DisplayName: displayName,
		Country:     f.Country,
		CountryCode: f.CountryCode,
		State:       f.State,
		City:        f.City,
	}
}

type dbPlace struct {
	Name      string  `db:"name"`
	Query     string  `db:"query"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`

	// BIGINT is signed; OSM ids fit comfortably.
	OsmID   int64  `db:"osm_id"`
	OsmType string `db:"osm_type"`
	Type    string `db:"type"`

	DisplayName *string `db:"display_name"`
	Country     *string `db:"country"`
	CountryCode *string `db:"country_code"`
	State       *string `db:"state"`
	City        *string `db:"city"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Repository interface {
	SavePlace(ctx context.Context, p *Place) error
	GetPlace(ctx context.Context, name string) (*Place, error)
	ListPlaces(ctx context.Context) ([]*Place, error)
	DeletePlace(ctx context.Context, name string) (bool, error)
}

type pgRepo struct {
	db *sqlx.DB
}

var _ Repository = (*pgRepo)(nil)

func NewPgRepository(db *sql.DB) *pgRepo {
	return &pgRepo{db: sqlx.NewDb(db, "postgres")}
}

func (r *pgRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create places table: %w", err)
	}

	return nil
}

func (r *pgRepo) SavePlace(ctx context.Context, p *Place) error {
	query := `
	INSERT INTO places (name, query, latitude, longitude, osm_id, osm_type, type, display_name, country, country_code, state, city)
	VALUES (:name, :query, :latitude, :longitude, :osm_id, :osm_type, :type, :display_name, :country, :country_code, :state, :city)
	ON CONFLICT (name) DO UPDATE SET
		query = EXCLUDED.query,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		osm_id = EXCLUDED.osm_id,
		osm_type = EXCLUDED.osm_type,
		type = EXCLUDED.type,
		display_name = EXCLUDED.display_name,
		country = EXCLUDED.country,
		country_code = EXCLUDED.country_code,
		state = EXCLUDED.state,
		city = EXCLUDED.city,
		updated_at = NOW();`

	_, err := r.db.NamedExecContext(ctx, query, toDB(p))
	if err != nil {
		return fmt.Errorf("upsert place: %w", err)
	}

	return nil
}

// GetPlace returns nil without an error when name is unknown.
func (r *pgRepo) GetPlace(ctx context.Context, name string) (*Place, error) {
	var p dbPlace

	err := r.db.GetContext(ctx, &p, `SELECT * FROM places WHERE name = $1 LIMIT 1`, name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select place: %w", err)
	} else if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return p.Map(), nil
}

func (r *pgRepo) ListPlaces(ctx context.Context) ([]*Place, error) {
	var rows []dbPlace

	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM places ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select places: %w", err)
	}

	places := make([]*Place, len(rows))
	for i := range rows {
		places[i] = rows[i].Map()
	}

	return places, nil
}

func (r *pgRepo) DeletePlace(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("delete place: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}

func toDB(p *Place) dbPlace {
	return dbPlace{
		Name:        p.Name,
		Query:       p.Query,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		OsmID:       int64(p.OsmID),
		OsmType:     p.OsmType,
		Type:        p.Type,
		DisplayName: nullable(p.DisplayName),
		Country:     nullable(p.Country),
		CountryCode: nullable(p.CountryCode),
		State:       nullable(p.State),
		City:        nullable(p.City),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p dbPlace) Map() *Place {
	place := Place{
		Name:      p.Name,
		Query:     p.Query,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		OsmID:     uint64(p.OsmID),
		OsmType:   p.OsmType,
		Type:      p.Type,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.DisplayName != nil {
		place.DisplayName = *p.DisplayName
	}

	if p.Country != nil {
		place.Country = *p.Country
	}

	if p.CountryCode != nil {
		place.CountryCode = *p.CountryCode
	}

	if p.State != nil {
		place.State = *p.State
	}

	if p.City != nil {
		place.City = *p.City
	}

	return &place
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
