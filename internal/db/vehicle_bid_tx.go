package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/bidding"
	"github.com/shopspring/decimal"
)

type PlaceBidTxParams struct {
	VehicleID uuid.UUID
	Amount    decimal.Decimal
}

type PlaceBidTxResult struct {
	Bid     Bid     `json:"bid"`
	Vehicle Vehicle `json:"vehicle"`
}

// PlaceBidTx admits or rejects a bid as one atomic step: read of the current bid,
// the admission decision and the write of the new state all happen against the
// locked row inside a single transaction. Concurrent admissions on the same
// vehicle serialize at the row lock; vehicles never block each other.
//
// Rejections come back as bidding.ErrBidNotPositive / bidding.ErrBidNotLower,
// unknown vehicles as ErrRecordNotFound. Anything else is a storage fault.
func (store *SQLStore) PlaceBidTx(ctx context.Context, arg PlaceBidTxParams) (PlaceBidTxResult, error) {
	var result PlaceBidTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Khóa row vehicle. Quyết định admit phải dựa trên giá trị ĐÃ KHÓA,
		// không phải giá trị client đọc được trước đó - tránh race read-decide-write.
		vehicle, err := qTx.GetVehicleForUpdate(ctx, arg.VehicleID)
		if err != nil {
			return err
		}

		var currentBid *decimal.Decimal
		if vehicle.CurrentBid.Valid {
			currentBid = &vehicle.CurrentBid.Decimal
		}

		// 2. Áp dụng luật đấu giá giảm dần
		if err = bidding.Admit(currentBid, arg.Amount); err != nil {
			return err
		}

		// 3. Ghi lượt đặt giá mới vào lịch sử
		bidID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate bid ID: %w", err)
		}

		bid, err := qTx.CreateBid(ctx, CreateBidParams{
			ID:        bidID,
			VehicleID: arg.VehicleID,
			Amount:    arg.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to create bid: %w", err)
		}
		result.Bid = bid

		// 4. Cập nhật current_bid cùng transaction để hai giá trị không bao giờ lệch nhau
		updatedVehicle, err := qTx.setVehicleCurrentBid(ctx, setVehicleCurrentBidParams{
			ID:         arg.VehicleID,
			CurrentBid: arg.Amount,
		})
		if err != nil {
			return fmt.Errorf("failed to update current bid: %w", err)
		}
		result.Vehicle = updatedVehicle

		// 5. NOTIFY nằm trong transaction: chỉ được phát khi commit thành công,
		// và đến các subscriber theo đúng thứ tự commit.
		return qTx.notifyBidChanged(ctx, BidChangedPayload{
			VehicleID:  updatedVehicle.ID.String(),
			CurrentBid: updatedVehicle.CurrentBid,
			TotalBids:  updatedVehicle.TotalBids,
		})
	})

	return result, err
}
