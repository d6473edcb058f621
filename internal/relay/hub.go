package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// RoomCompany is the room every client joins implicitly.
	RoomCompany = "company"

	presenceKeyPrefix = "presence:company:"
	presenceTTL       = 5 * time.Minute
)

// Hub routes events to websocket clients grouped into per-tenant rooms. All
// room bookkeeping happens on the single Run goroutine; the channels are the
// only way in.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	broadcast  chan outbound

	rooms map[string]map[*Client]struct{}

	// presence mirrors online membership into Redis so it survives across
	// instances; nil disables it.
	presence *redis.Client
	logger   *zap.Logger
}

type outbound struct {
	roomKeys []string
	data     []byte
}

type subscription struct {
	client *Client
	room   string
	leave  bool
}

func NewHub(presence *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		broadcast:  make(chan outbound, 64),
		rooms:      make(map[string]map[*Client]struct{}),
		presence:   presence,
		logger:     logger,
	}
}

// Run owns the room maps until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.join(client, RoomCompany)
			h.markOnline(ctx, client)
			// Deliver inline. Run must never send on h.broadcast: it is
			// the only goroutine draining it, so going through Publish
			// here would deadlock once the buffer fills.
			h.deliverEvent(Event{
				Type:      EventPresenceJoined,
				CompanyID: client.companyID,
				Rooms:     []string{RoomCompany},
				Payload:   map[string]any{"user_id": client.userID},
			})
		case client := <-h.unregister:
			h.drop(client)
			h.closeClient(client)
			h.markOffline(ctx, client)
			h.deliverEvent(Event{
				Type:      EventPresenceLeft,
				CompanyID: client.companyID,
				Rooms:     []string{RoomCompany},
				Payload:   map[string]any{"user_id": client.userID},
			})
		case sub := <-h.subscribe:
			if sub.leave {
				h.leave(sub.client, sub.room)
			} else {
				h.join(sub.client, sub.room)
			}
		case msg := <-h.broadcast:
			h.deliver(msg.roomKeys, msg.data)
		}
	}
}

// deliver fans a payload out to every member of the given rooms. Run
// goroutine only.
func (h *Hub) deliver(roomKeys []string, data []byte) {
	for _, key := range roomKeys {
		for client := range h.rooms[key] {
			select {
			case client.send <- data:
			default:
				// Slow consumer: drop it rather than block the hub.
				h.drop(client)
				h.closeClient(client)
			}
		}
	}
}

// deliverEvent marshals and delivers without touching h.broadcast.
func (h *Hub) deliverEvent(event Event) {
	data, err := json.Marshal(wireEvent{Type: event.Type, Payload: event.Payload})
	if err != nil {
		h.logger.Error("failed to marshal relay event", zap.Error(err), zap.String("type", event.Type))
		return
	}
	keys := make([]string, 0, len(event.Rooms))
	for _, room := range event.Rooms {
		keys = append(keys, roomKey(event.CompanyID, room))
	}
	h.deliver(keys, data)
}

// Publish implements Relay. Marshalling happens here, once per event.
func (h *Hub) Publish(ctx context.Context, event Event) {
	data, err := json.Marshal(wireEvent{Type: event.Type, Payload: event.Payload})
	if err != nil {
		h.logger.Error("failed to marshal relay event", zap.Error(err), zap.String("type", event.Type))
		return
	}

	keys := make([]string, 0, len(event.Rooms))
	for _, room := range event.Rooms {
		keys = append(keys, roomKey(event.CompanyID, room))
	}

	select {
	case h.broadcast <- outbound{roomKeys: keys, data: data}:
	case <-ctx.Done():
	}
}

// Presence lists the user ids currently online in a company.
func (h *Hub) Presence(ctx context.Context, companyID uint64) ([]uint64, error) {
	if h.presence == nil {
		return nil, nil
	}

	members, err := h.presence.SMembers(ctx, presenceKey(companyID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read presence set: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseUint(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type wireEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// roomKey namespaces a room by tenant. A client can only ever be joined to
// keys carrying its own company id, so cross-tenant delivery is impossible
// by construction.
func roomKey(companyID uint64, room string) string {
	return fmt.Sprintf("%d:%s", companyID, room)
}

func presenceKey(companyID uint64) string {
	return presenceKeyPrefix + strconv.FormatUint(companyID, 10)
}

func (h *Hub) join(client *Client, room string) {
	key := roomKey(client.companyID, room)
	if h.rooms[key] == nil {
		h.rooms[key] = make(map[*Client]struct{})
	}
	h.rooms[key][client] = struct{}{}
	client.rooms[key] = struct{}{}
}

func (h *Hub) leave(client *Client, room string) {
	key := roomKey(client.companyID, room)
	delete(client.rooms, key)
	if members, ok := h.rooms[key]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, key)
		}
	}
}

func (h *Hub) drop(client *Client) {
	for key := range client.rooms {
		if members, ok := h.rooms[key]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, key)
			}
		}
	}
	client.rooms = make(map[string]struct{})
}

// closeClient shuts the send channel exactly once. Only the Run goroutine
// calls this, so the flag needs no locking.
func (h *Hub) closeClient(client *Client) {
	if !client.closed {
		client.closed = true
		close(client.send)
	}
}

func (h *Hub) markOnline(ctx context.Context, client *Client) {
	if h.presence == nil {
		return
	}
	key := presenceKey(client.companyID)
	pipe := h.presence.Pipeline()
	pipe.SAdd(ctx, key, strconv.FormatUint(client.userID, 10))
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		h.logger.Warn("failed to record presence", zap.Error(err), zap.Uint64("user_id", client.userID))
	}
}

func (h *Hub) markOffline(ctx context.Context, client *Client) {
	if h.presence == nil {
		return
	}
	err := h.presence.SRem(ctx, presenceKey(client.companyID), strconv.FormatUint(client.userID, 10)).Err()
	if err != nil {
		h.logger.Warn("failed to clear presence", zap.Error(err), zap.Uint64("user_id", client.userID))
	}
}
