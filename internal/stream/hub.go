package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans location updates out to every socket watching a plan. A Redis
// pub/sub bridge keeps rooms in sync across processes; without Redis the
// hub still serves clients connected to this process.
type Hub struct {
	redis *redis.Client
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex
}

type Client struct {
	PlanID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis: redisClient,
		rooms: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(planID string) *Client {
	client := &Client{
		PlanID: planID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[planID] == nil {
		h.rooms[planID] = map[*Client]struct{}{}
	}
	h.rooms[planID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[client.PlanID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.PlanID)
		}
	}
	close(client.Send)
}

// Broadcast delivers to local clients without blocking; slow consumers are
// skipped. The payload is also published for other processes.
func (h *Hub) Broadcast(planID string, payload []byte) {
	h.mu.RLock()
	room := h.rooms[planID]
	h.mu.RUnlock()

	for client := range room {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		if err := h.redis.Publish(context.Background(), redisChannel(planID), payload).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "plan:*:locations")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		planID := planIDFromChannel(msg.Channel)
		h.mu.RLock()
		room := h.rooms[planID]
		h.mu.RUnlock()
		for client := range room {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
	}
}

func redisChannel(planID string) string {
	return "plan:" + planID + ":locations"
}

func planIDFromChannel(ch string) string {
	// plan:{id}:locations
	const prefix = "plan:"
	const suffix = ":locations"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
