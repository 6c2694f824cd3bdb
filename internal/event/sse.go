package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// SSEServer fan-outs events to the SSE sessions subscribed to each topic.
//
// Nó là chủ sở hữu DUY NHẤT của tập subscriber: mọi thao tác thêm/xóa/gửi đều đi
// qua mutex của hub, nên việc đóng channel trong Unregister không bao giờ đụng
// một lượt gửi đang diễn ra.
type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	mu      sync.Mutex
}

func NewSSEServer() EventSender {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, 64),
	}
}

// Register đăng ký client vào topic. Client channel phải có buffer (xem
// api.streamVehicleBids) vì hub không bao giờ block chờ một client chậm.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	total := len(s.clients[topic])
	s.mu.Unlock()
	log.Info().Str("topic", topic).Int("total_clients", total).Msg("client registered")
}

// Unregister hủy đăng ký client khỏi topic. Topic trống sẽ bị xóa luôn để số
// lượng topic đang theo dõi không phình ra vô hạn khi không còn ai xem.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	remaining := 0
	if clients, ok := s.clients[topic]; ok {
		if clients[client] {
			delete(clients, client)
			close(client)
		}
		if len(clients) == 0 {
			delete(s.clients, topic)
		}
		remaining = len(clients)
	}
	s.mu.Unlock()
	log.Info().Str("topic", topic).Int("remaining_clients", remaining).Msg("client unregistered")
}

// Broadcast gửi sự kiện tới tất cả client của topic
func (s *SSEServer) Broadcast(event Event) {
	s.events <- event
}

// ActiveTopics returns the topics that currently have at least one subscriber.
func (s *SSEServer) ActiveTopics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make([]string, 0, len(s.clients))
	for topic := range s.clients {
		topics = append(topics, topic)
	}
	return topics
}

// Run xử lý luồng sự kiện. Gửi cho từng client là best-effort và không block:
// client chậm bị bỏ bớt sự kiện cũ nhất đang chờ (mỗi sự kiện là một snapshot
// đầy đủ nên bỏ snapshot cũ không làm sai trạng thái cuối cùng client thấy).
func (s *SSEServer) Run() {
	for ev := range s.events {
		s.mu.Lock()
		for client := range s.clients[ev.Topic] {
			select {
			case client <- ev:
			default:
				// Buffer đầy: nhường chỗ cho snapshot mới nhất
				select {
				case <-client:
				default:
				}
				select {
				case client <- ev:
				default:
				}
			}
		}
		s.mu.Unlock()
	}
}
