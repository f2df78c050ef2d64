package events

import (
	"context"
	"sync"
)

// Hub owns one Buffer per room and is the in-process Publisher behind the
// room event stream.
type Hub struct {
	mu      sync.Mutex
	size    int
	buffers map[string]*Buffer
}

func NewHub(size int) *Hub {
	return &Hub{size: size, buffers: map[string]*Buffer{}}
}

func (h *Hub) Buffer(roomID string) *Buffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf, ok := h.buffers[roomID]
	if !ok {
		buf = NewBuffer(h.size)
		h.buffers[roomID] = buf
	}
	return buf
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Buffer(ev.RoomID).Append(ev)
	return nil
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, buf := range h.buffers {
		buf.Close()
		delete(h.buffers, id)
	}
}
