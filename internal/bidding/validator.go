package bidding

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Các lỗi từ chối bid. Đây là kết quả nghiệp vụ bình thường (xảy ra thường xuyên),
// không phải lỗi hệ thống, nên được trả về dưới dạng giá trị thay vì log như fault.
var (
	ErrBidNotPositive = errors.New("bid amount must be greater than 0")
	ErrBidNotLower    = errors.New("bid amount must be lower than the current bid")
)

// Admit decides whether a proposed bid is admissible against the current bid.
// A nil error means admitted. currentBid is nil when the vehicle has no bids yet.
//
// Đấu giá kiểu giảm dần (reverse auction): nhà vận chuyển trả giá THẤP hơn để thắng,
// nên giá mới phải nhỏ hơn giá hiện tại - bằng giá hiện tại cũng bị từ chối.
func Admit(currentBid *decimal.Decimal, proposed decimal.Decimal) error {
	if proposed.Sign() <= 0 {
		return ErrBidNotPositive
	}

	if currentBid != nil && proposed.GreaterThanOrEqual(*currentBid) {
		return ErrBidNotLower
	}

	return nil
}
