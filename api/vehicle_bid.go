package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/bidding"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Amount thiếu sẽ decode thành 0 và bị validator từ chối với mã NON_POSITIVE,
// nên không cần binding required ở đây.
type placeBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

//	@Summary		Place a bid on a vehicle
//	@Description	Submits a carrier bid. The bid is admitted only if it is positive and strictly lower than the current bid.
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Param			vehicleID	path	string			true	"Vehicle ID"
//	@Param			request		body	placeBidRequest	true	"Request body containing bid amount"
//	@Router			/vehicles/{vehicleID}/bids [post]
func (server *Server) placeBid(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	var req placeBidRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	// Toàn bộ việc đọc giá hiện tại, quyết định và ghi nằm trong một transaction
	// phía store - handler không tự kiểm tra trước để tránh quyết định trên dữ liệu cũ.
	result, err := server.dbStore.PlaceBidTx(c, db.PlaceBidTxParams{
		VehicleID: vehicleID,
		Amount:    req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, bidding.ErrBidNotPositive):
			c.JSON(http.StatusUnprocessableEntity, rejectionResponse(
				ErrorCodeNonPositive, "amount", req.Amount.String(),
				"Bid amount must be greater than 0"))
		case errors.Is(err, bidding.ErrBidNotLower):
			c.JSON(http.StatusUnprocessableEntity, rejectionResponse(
				ErrorCodeNotLower, "amount", req.Amount.String(),
				"Bid amount must be lower than the current bid"))
		case errors.Is(err, db.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
		default:
			// Lỗi hạ tầng (store không phản hồi...) - khác hẳn với bid bị từ chối
			c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to place bid: %w", err)))
		}
		return
	}

	log.Info().
		Str("vehicle_id", vehicleID.String()).
		Str("amount", result.Bid.Amount.String()).
		Int32("total_bids", result.Vehicle.TotalBids).
		Msg("bid placed successfully")

	// Không broadcast ở đây: change feed của store sẽ đẩy sự kiện tới mọi instance,
	// kể cả instance không xử lý request này.
	c.JSON(http.StatusOK, result)
}

//	@Summary		List bids of a vehicle
//	@Description	Returns the append-only bid history of one vehicle in submission order.
//	@Tags			bids
//	@Produce		json
//	@Param			vehicleID	path	string	true	"Vehicle ID"
//	@Router			/vehicles/{vehicleID}/bids [get]
func (server *Server) listVehicleBids(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	// Kiểm tra vehicle tồn tại để phân biệt "chưa có bid" với "không có vehicle"
	if _, err = server.dbStore.GetVehicleByID(c, vehicleID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get vehicle: %w", err)))
		return
	}

	bids, err := server.dbStore.ListBidsByVehicle(c, vehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to list bids: %w", err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}
