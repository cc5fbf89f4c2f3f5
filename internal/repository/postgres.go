package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"roomie/internal/model"
	"roomie/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type columnKind int

const (
	textColumn columnKind = iota
	numberColumn
	jsonArrayColumn
)

type column struct {
	name string
	kind columnKind
}

type table struct {
	name    string
	columns map[string]column
	selects string
}

var accommodationTable = table{
	name: "accommodations",
	columns: map[string]column{
		model.FieldID:      {name: "id", kind: textColumn},
		model.FieldName:    {name: "name", kind: textColumn},
		model.FieldType:    {name: "type", kind: textColumn},
		model.FieldAddress: {name: "address", kind: textColumn},
	},
	selects: "id::text AS id, host, name, type, address, COALESCE(logo_image_url, '') AS logo_image_url, COALESCE(cover_image_url, '') AS cover_image_url",
}

var roomTable = table{
	name: "rooms",
	columns: map[string]column{
		model.FieldID:              {name: "id", kind: textColumn},
		model.FieldAccommodationID: {name: "accommodation_id", kind: textColumn},
		model.FieldRoomType:        {name: "room_type", kind: textColumn},
		model.FieldDescription:     {name: "description", kind: textColumn},
		model.FieldFacilities:      {name: "facilities", kind: jsonArrayColumn},
		model.FieldPrice:           {name: "price", kind: numberColumn},
		model.FieldBedSize:         {name: "bed_size", kind: textColumn},
		model.FieldMaxOccupancy:    {name: "max_occupancy", kind: numberColumn},
	},
	selects: `id::text AS id, accommodation_id::text AS accommodation_id, room_type,
		COALESCE(description, '') AS description, facilities, price, bed_size,
		max_occupancy, COALESCE(room_number, '') AS room_number, is_booked`,
}

var ratingTable = table{
	name: "ratings",
	columns: map[string]column{
		model.FieldID:              {name: "id", kind: textColumn},
		model.FieldAccommodationID: {name: "accommodation_id", kind: textColumn},
	},
	selects: "id::text AS id, accommodation_id::text AS accommodation_id, user_account, rating",
}

// PostgresRepository implements Store on top of PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// FindAccommodations returns every accommodation matching the predicate
func (r *PostgresRepository) FindAccommodations(ctx context.Context, pred model.Predicate) ([]model.Accommodation, error) {
	query, args, err := buildSelect(accommodationTable, pred, "name ASC", 0)
	if err != nil {
		return nil, err
	}

	accommodations := []model.Accommodation{}
	if err := r.db.SelectContext(ctx, &accommodations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch accommodations: %w", err)
	}
	return accommodations, nil
}

// FindAccommodation returns the first matching accommodation, or nil when none matches
func (r *PostgresRepository) FindAccommodation(ctx context.Context, pred model.Predicate) (*model.Accommodation, error) {
	query, args, err := buildSelect(accommodationTable, pred, "name ASC", 1)
	if err != nil {
		return nil, err
	}

	var accommodation model.Accommodation
	if err := r.db.GetContext(ctx, &accommodation, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get accommodation: %w", err)
	}
	return &accommodation, nil
}

// FindRooms returns every room matching the predicate
func (r *PostgresRepository) FindRooms(ctx context.Context, pred model.Predicate) ([]model.Room, error) {
	query, args, err := buildSelect(roomTable, pred, "price ASC", 0)
	if err != nil {
		return nil, err
	}

	rooms := []model.Room{}
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	return rooms, nil
}

// FindRatings returns every rating matching the predicate
func (r *PostgresRepository) FindRatings(ctx context.Context, pred model.Predicate) ([]model.Rating, error) {
	query, args, err := buildSelect(ratingTable, pred, "", 0)
	if err != nil {
		return nil, err
	}

	ratings := []model.Rating{}
	if err := r.db.SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}
	return ratings, nil
}

func buildSelect(t table, pred model.Predicate, orderBy string, limit int) (string, []interface{}, error) {
	whereClause, args, err := buildWhere(t, pred)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", t.selects, t.name, whereClause)
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query, args, nil
}

// buildWhere translates a predicate into a parameterized WHERE clause.
// Only whitelisted columns are ever interpolated; every value is a bind parameter.
func buildWhere(t table, pred model.Predicate) (string, []interface{}, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	for _, cond := range pred.Conditions {
		col, ok := t.columns[cond.Field]
		if !ok {
			return "", nil, unknownField(t.name, cond.Field)
		}

		switch cond.Op {
		case model.OpEquals:
			whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", columnRef(col), argIndex))
			args = append(args, cond.Value)
			argIndex++

		case model.OpContains:
			text, ok := cond.Value.(string)
			if !ok || col.kind != textColumn {
				return "", nil, unsupportedOperator(cond.Field, cond.Op)
			}
			whereClauses = append(whereClauses, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col.name, argIndex))
			args = append(args, "%"+utils.EscapeLike(text)+"%")
			argIndex++

		case model.OpAtMost, model.OpAtLeast:
			if col.kind != numberColumn {
				return "", nil, unsupportedOperator(cond.Field, cond.Op)
			}
			bound, err := numberValue(cond.Field, cond.Value)
			if err != nil {
				return "", nil, err
			}
			cmp := "<="
			if cond.Op == model.OpAtLeast {
				cmp = ">="
			}
			whereClauses = append(whereClauses, fmt.Sprintf("%s %s $%d", col.name, cmp, argIndex))
			args = append(args, bound)
			argIndex++

		case model.OpContainsAll:
			if col.kind != jsonArrayColumn {
				return "", nil, unsupportedOperator(cond.Field, cond.Op)
			}
			values, err := stringValues(cond.Field, cond.Value)
			if err != nil {
				return "", nil, err
			}
			// One EXISTS per requested facility so every one of them must match
			for _, value := range values {
				whereClauses = append(whereClauses, fmt.Sprintf(
					`EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS f WHERE f ILIKE $%d ESCAPE '\')`,
					col.name, argIndex))
				args = append(args, "%"+utils.EscapeLike(strings.TrimSpace(value))+"%")
				argIndex++
			}

		case model.OpIn:
			values, err := stringValues(cond.Field, cond.Value)
			if err != nil {
				return "", nil, err
			}
			whereClauses = append(whereClauses, fmt.Sprintf("%s = ANY($%d)", columnRef(col), argIndex))
			args = append(args, pq.Array(values))
			argIndex++

		default:
			return "", nil, unsupportedOperator(cond.Field, cond.Op)
		}
	}

	return strings.Join(whereClauses, " AND "), args, nil
}

// columnRef compares identifiers as text so uuid and text keys behave the same
func columnRef(col column) string {
	if col.kind == textColumn && (col.name == "id" || strings.HasSuffix(col.name, "_id")) {
		return col.name + "::text"
	}
	return col.name
}
