package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle là một tin đăng vận chuyển xe kèm phiên đấu giá giảm dần của nó.
// Các trường mô tả (make, model, tuyến đường...) là bất biến đối với phần đấu giá;
// chỉ current_bid và total_bids thay đổi khi có lượt đặt giá được chấp nhận.
type Vehicle struct {
	ID        uuid.UUID `json:"id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      string    `json:"year"`
	BodyStyle string    `json:"body_style"`
	CountryA  string    `json:"country_a"`
	CityA     string    `json:"city_a"`
	CountryB  string    `json:"country_b"`
	CityB     string    `json:"city_b"`
	// CurrentBid là giá của lượt đặt gần nhất được chấp nhận, null khi chưa có bid.
	// Bất biến: luôn bằng min(amount) của toàn bộ lịch sử bid.
	CurrentBid decimal.NullDecimal `json:"current_bid"`
	TotalBids  int32               `json:"total_bids"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Bid is a single admitted bid. Rows are append-only and never reordered.
type Bid struct {
	ID        uuid.UUID       `json:"id"`
	VehicleID uuid.UUID       `json:"vehicle_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
