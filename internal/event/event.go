package event

import "fmt"

// Event đại diện cho một sự kiện trong hệ thống
type Event struct {
	Topic string      // Ví dụ: "vehicle:123"
	Type  string      // Loại sự kiện: bid_changed, feed_degraded
	Data  interface{} // Dữ liệu sự kiện (tùy thuộc loại)
}

const (
	EventTypeBidChanged   = "bid_changed"   // Có lượt đặt giá mới được chấp nhận
	EventTypeFeedDegraded = "feed_degraded" // Change feed đã đứt hẳn, không resubscribe được nữa
)

// VehicleTopic returns the hub topic carrying one vehicle's bid updates.
func VehicleTopic(vehicleID string) string {
	return fmt.Sprintf("vehicle:%s", vehicleID)
}

// EventSender là interface cho đại diện cho server gửi sự kiện đến client
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	ActiveTopics() []string
	Run()
}
