package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phamvd/haulbid-BE/internal/db"
	"github.com/phamvd/haulbid-BE/internal/event"
	"github.com/rs/zerolog/log"
)

const (
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
	defaultMaxRetries = 10
)

// Listener subscribes to the store's bid change notifications and republishes
// them as typed events on the fan-out hub. There is exactly one listener per
// process; per-vehicle routing happens through hub topics, which exist only
// while at least one viewer is registered.
type Listener struct {
	connPool   *pgxpool.Pool
	sender     event.EventSender
	baseDelay  time.Duration
	maxDelay   time.Duration
	maxRetries int
}

func NewListener(connPool *pgxpool.Pool, sender event.EventSender) *Listener {
	return &Listener{
		connPool:   connPool,
		sender:     sender,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
		maxRetries: defaultMaxRetries,
	}
}

// Run blocks until ctx is cancelled or the retry budget is exhausted. On feed
// errors it resubscribes with exponential backoff; chỉ khi hết ngân sách retry
// mới phát sự kiện feed_degraded cho các topic đang có người xem rồi dừng hẳn.
func (l *Listener) Run(ctx context.Context) {
	retries := 0

	for {
		subscribed, err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if subscribed {
			// Phiên LISTEN vừa rồi có hiệu lực nên reset lại ngân sách retry
			retries = 0
		}

		retries++
		if retries > l.maxRetries {
			log.Error().Err(err).Msg("bid change feed permanently degraded, giving up")
			l.degrade()
			return
		}

		delay := backoffDelay(l.baseDelay, l.maxDelay, retries)
		log.Warn().Err(err).Int("attempt", retries).Dur("retry_in", delay).
			Msg("bid change feed disconnected, resubscribing")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

// listen holds one dedicated connection in LISTEN mode and forwards every
// notification until the connection breaks. Returns whether the LISTEN itself
// succeeded, so the caller can distinguish a dead store from a dropped session.
func (l *Listener) listen(ctx context.Context) (subscribed bool, err error) {
	conn, err := l.connPool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "LISTEN "+db.BidChangedChannel); err != nil {
		return false, err
	}
	log.Info().Str("channel", db.BidChangedChannel).Msg("subscribed to bid change feed")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return true, err
		}
		l.handle(notification.Payload)
	}
}

// handle decodes one raw notification and republishes it as a typed event.
// Payload hỏng thì bỏ qua chứ không làm sập listener: mỗi sự kiện là một
// snapshot đầy đủ nên sự kiện kế tiếp sẽ bù lại.
func (l *Listener) handle(payload string) {
	var msg db.BidChangedPayload
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Warn().Err(err).Str("payload", payload).Msg("dropping malformed bid change notification")
		return
	}

	l.sender.Broadcast(event.Event{
		Topic: event.VehicleTopic(msg.VehicleID),
		Type:  event.EventTypeBidChanged,
		Data:  msg,
	})
}

// degrade thông báo cho mọi topic đang hoạt động rằng feed đã chết hẳn,
// để các session đang mở biết mà đóng thay vì im lặng không nhận gì nữa.
func (l *Listener) degrade() {
	for _, topic := range l.sender.ActiveTopics() {
		l.sender.Broadcast(event.Event{
			Topic: topic,
			Type:  event.EventTypeFeedDegraded,
		})
	}
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
