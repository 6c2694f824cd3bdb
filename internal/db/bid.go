package db

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidChangedChannel is the Postgres NOTIFY channel every committed bid admission
// publishes to. The change feed adapter LISTENs on it.
const BidChangedChannel = "vehicle_bid_changed"

// BidChangedPayload is the wire format of a bid change notification. It carries an
// authoritative snapshot, not a delta, so duplicate or reordered delivery is harmless.
//
// VehicleID được render bằng uuid.UUID.String() ở cả bên phát lẫn bên nhận để
// tránh lệch kiểu id giữa feed và filter (xem notify_payload_test.go).
type BidChangedPayload struct {
	VehicleID  string              `json:"vehicle_id"`
	CurrentBid decimal.NullDecimal `json:"current_bid"`
	TotalBids  int32               `json:"total_bids"`
}

type CreateBidParams struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	Amount    decimal.Decimal
}

func (q *Queries) CreateBid(ctx context.Context, arg CreateBidParams) (Bid, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO bids (id, vehicle_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, vehicle_id, amount, created_at`,
		arg.ID, arg.VehicleID, arg.Amount,
	)

	var b Bid
	err := row.Scan(&b.ID, &b.VehicleID, &b.Amount, &b.CreatedAt)
	return b, err
}

// ListBidsByVehicle returns the full bid history of a vehicle in submission order.
func (q *Queries) ListBidsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]Bid, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, vehicle_id, amount, created_at
		FROM bids
		WHERE vehicle_id = $1
		ORDER BY created_at ASC, id ASC`,
		vehicleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := []Bid{}
	for rows.Next() {
		var b Bid
		if err = rows.Scan(&b.ID, &b.VehicleID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// notifyBidChanged phát thông báo thay đổi bid qua pg_notify. Được gọi bên trong
// PlaceBidTx nên thông báo chỉ đến tay subscriber khi transaction commit thành công.
func (q *Queries) notifyBidChanged(ctx context.Context, payload BidChangedPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = q.db.Exec(ctx, `SELECT pg_notify($1, $2)`, BidChangedChannel, string(data))
	return err
}
