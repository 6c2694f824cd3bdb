package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/event"
	"github.com/rs/zerolog/log"
)

//	@Summary		Stream bid updates via Server-Sent Events
//	@Description	Establishes an SSE connection pushing the current bid of one vehicle in real time. The first event is the current snapshot.
//	@Tags			bids
//	@Produce		text/event-stream
//	@Param			vehicleID	path	string	true	"Vehicle ID"
//	@Router			/vehicles/{vehicleID}/stream [get]
func (server *Server) streamVehicleBids(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	// Snapshot đầu tiên đọc từ store; vehicle không tồn tại thì đóng luôn,
	// không bao giờ vào trạng thái streaming.
	vehicle, err := server.dbStore.GetVehicleByID(c, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get vehicle: %w", err)))
		return
	}

	topic := event.VehicleTopic(vehicleID.String())

	// Thiết lập header SSE
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	writeEvent(c, event.EventTypeBidChanged, snapshotPayload(vehicle))

	// Client channel có buffer: hub không bao giờ chờ một connection chậm
	clientChan := make(chan event.Event, server.config.StreamBufferSize)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	// Gửi sự kiện tới client
	for {
		select {
		case ev, ok := <-clientChan:
			if !ok {
				return
			}
			writeEvent(c, ev.Type, ev.Data)
			if ev.Type == event.EventTypeFeedDegraded {
				// Feed chết hẳn: báo cho client rồi đóng connection
				log.Warn().Str("vehicle_id", vehicleID.String()).Msg("closing stream, bid change feed degraded")
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}

//	@Summary		Refresh a vehicle's bid stream
//	@Description	Re-reads the current auction state and pushes it to every open stream of this vehicle. This is the inbound "refresh" message of the stream; the request body is ignored.
//	@Tags			bids
//	@Param			vehicleID	path	string	true	"Vehicle ID"
//	@Router			/vehicles/{vehicleID}/stream/refresh [post]
func (server *Server) refreshVehicleStream(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid vehicle ID format")))
		return
	}

	vehicle, err := server.dbStore.GetVehicleByID(c, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("vehicle ID %s not found", vehicleID)))
			return
		}

		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("failed to get vehicle: %w", err)))
		return
	}

	// Snapshot đọc lại từ store được đẩy cho MỌI session của vehicle này;
	// snapshot trùng lặp vô hại vì client áp dụng kiểu idempotent.
	//
	// Snapshot này KHÔNG được xếp thứ tự so với change feed: một bid commit giữa
	// lượt đọc ở trên và lượt Broadcast này có thể khiến viewer thấy lại giá cũ
	// trong chốc lát. Chấp nhận được vì sự kiện feed kế tiếp (mang snapshot mới
	// hơn) sẽ tự sửa lại, còn refresh chỉ là đường phụ do client chủ động gọi.
	server.eventSender.Broadcast(event.Event{
		Topic: event.VehicleTopic(vehicleID.String()),
		Type:  event.EventTypeBidChanged,
		Data:  snapshotPayload(vehicle),
	})

	c.Status(http.StatusNoContent)
}

func snapshotPayload(vehicle db.Vehicle) db.BidChangedPayload {
	return db.BidChangedPayload{
		VehicleID:  vehicle.ID.String(),
		CurrentBid: vehicle.CurrentBid,
		TotalBids:  vehicle.TotalBids,
	}
}

func writeEvent(c *gin.Context, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Err(err).Msg("failed to marshal stream event")
		return
	}

	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", eventType, payload)
	c.Writer.Flush()
}
