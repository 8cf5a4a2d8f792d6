package notify

import (
	"context"
	"encoding/json"
	"fmt"

	redisclient "github.com/davidhuanca/mayorista-backend/pkg/redis"
)

// SellerPublisher fans an event out to connected seller dashboards.
type SellerPublisher interface {
	PublishNewOrder(ctx context.Context, msg SellerMessage) error
}

// SellerMessage is the payload pushed to the sellers channel.
type SellerMessage struct {
	Event        string `json:"event"`
	OrderID      int64  `json:"pedido_id"`
	CustomerName string `json:"nombre"`
	Total        string `json:"total"`
	BranchID     int64  `json:"sucursal_id"`
}

// RedisSellerPublisher publishes over a redis pub/sub channel. The realtime
// gateway subscribes and relays to seller websockets.
type RedisSellerPublisher struct {
	client  *redisclient.Client
	channel string
}

func NewRedisSellerPublisher(client *redisclient.Client, channel string) (*RedisSellerPublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel required")
	}
	return &RedisSellerPublisher{client: client, channel: channel}, nil
}

func (p *RedisSellerPublisher) PublishNewOrder(ctx context.Context, msg SellerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, string(payload))
}
