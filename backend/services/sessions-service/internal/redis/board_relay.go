package redisstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

const boardChannel = "board:events"

// BoardRelay fans board events out to every replica through redis pub/sub.
type BoardRelay struct {
	client *redis.Client
	logger *zap.Logger
}

// NewBoardRelay returns relay.
func NewBoardRelay(client *redis.Client, logger *zap.Logger) *BoardRelay {
	return &BoardRelay{client: client, logger: logger}
}

// TableChanged publishes event. Failures are logged; the transition already committed.
func (r *BoardRelay) TableChanged(ctx context.Context, event models.BoardEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Warn("failed to encode board event", zap.Error(err))
		return
	}
	if err := r.client.Publish(ctx, boardChannel, data).Err(); err != nil {
		r.logger.Warn("failed to publish board event", zap.String("table_id", event.TableID), zap.Error(err))
	}
}

// Run delivers published events to deliver until ctx is done.
func (r *BoardRelay) Run(ctx context.Context, deliver func(models.BoardEvent)) error {
	sub := r.client.Subscribe(ctx, boardChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("board relay: subscription closed")
			}
			var event models.BoardEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warn("dropping malformed board event", zap.Error(err))
				continue
			}
			deliver(event)
		}
	}
}
