package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const vehicleColumns = `id, make, model, year, body_style, country_a, city_a, country_b, city_b, current_bid, total_bids, created_at, updated_at`

func scanVehicle(row interface{ Scan(dest ...any) error }) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.BodyStyle,
		&v.CountryA,
		&v.CityA,
		&v.CountryB,
		&v.CityB,
		&v.CurrentBid,
		&v.TotalBids,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}

type CreateVehicleParams struct {
	ID        uuid.UUID
	Make      string
	Model     string
	Year      string
	BodyStyle string
	CountryA  string
	CityA     string
	CountryB  string
	CityB     string
}

func (q *Queries) CreateVehicle(ctx context.Context, arg CreateVehicleParams) (Vehicle, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO vehicles (id, make, model, year, body_style, country_a, city_a, country_b, city_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+vehicleColumns,
		arg.ID, arg.Make, arg.Model, arg.Year, arg.BodyStyle, arg.CountryA, arg.CityA, arg.CountryB, arg.CityB,
	)
	return scanVehicle(row)
}

func (q *Queries) GetVehicleByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	row := q.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	return scanVehicle(row)
}

// GetVehicleForUpdate khóa row vehicle cho đến khi transaction kết thúc.
// Mọi PlaceBidTx đồng thời trên cùng một vehicle sẽ tuần tự hóa tại đây.
func (q *Queries) GetVehicleForUpdate(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	row := q.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 FOR UPDATE`, id)
	return scanVehicle(row)
}

func (q *Queries) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	rows, err := q.db.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

type UpdateVehicleParams struct {
	ID    uuid.UUID
	Make  *string
	Model *string
}

// UpdateVehicle updates the mutable descriptive fields of a vehicle listing.
// Nil fields are left untouched.
func (q *Queries) UpdateVehicle(ctx context.Context, arg UpdateVehicleParams) (Vehicle, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE vehicles
		SET make = coalesce($2, make),
			model = coalesce($3, model),
			updated_at = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		arg.ID, arg.Make, arg.Model,
	)
	return scanVehicle(row)
}

type setVehicleCurrentBidParams struct {
	ID         uuid.UUID
	CurrentBid decimal.Decimal
}

// setVehicleCurrentBid cập nhật current_bid và tăng total_bids trong cùng một câu lệnh,
// chỉ được gọi bên trong PlaceBidTx sau khi row đã bị khóa.
func (q *Queries) setVehicleCurrentBid(ctx context.Context, arg setVehicleCurrentBidParams) (Vehicle, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE vehicles
		SET current_bid = $2,
			total_bids = total_bids + 1,
			updated_at = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		arg.ID, arg.CurrentBid,
	)
	return scanVehicle(row)
}
