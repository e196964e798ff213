package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/usecase"
)

// RedisNotifier publishes change events on a per-team Redis channel. It is a
// convenience signal for connected clients; nothing depends on delivery.
type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, logger: logger}
}

func channelFor(teamID string) string {
	if teamID == "" {
		return "changes:global"
	}
	return fmt.Sprintf("changes:%s", teamID)
}

func (n *RedisNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if n == nil || n.client == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Touch()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, channelFor(event.TeamID), payload).Err(); err != nil {
		return err
	}
	n.logger.Debug("change event published",
		zap.String("table", event.Table),
		zap.String("operation", event.Operation),
		zap.String("team_id", event.TeamID))
	return nil
}

// Subscribe streams the team's change events until ctx is cancelled. Events
// that fail to decode are dropped.
func (n *RedisNotifier) Subscribe(ctx context.Context, teamID string) (<-chan domain.ChangeEvent, error) {
	if n == nil || n.client == nil {
		return nil, fmt.Errorf("notifier not configured")
	}
	sub := n.client.Subscribe(ctx, channelFor(teamID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	events := make(chan domain.ChangeEvent)
	go func() {
		defer close(events)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logger.Warn("failed to decode change event", zap.Error(err))
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

var _ usecase.ChangeNotifier = (*RedisNotifier)(nil)
