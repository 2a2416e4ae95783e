// Package realtime раздаёт изменения коллекций подписчикам: внутри процесса
// через Hub и между экземплярами сервиса через RedisBridge.
package realtime

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change — уведомление о записи в коллекцию.
type Change struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Op         Op        `json:"op"`
	Origin     string    `json:"origin"`
	At         time.Time `json:"at"`
}

type Listener func(Change)

// Hub — fan-out изменений по коллекциям. Слушатели вызываются вне блокировки,
// в порядке подписки.
type Hub struct {
	mu         sync.RWMutex
	origin     string
	next       uint64
	listeners  map[string]map[uint64]Listener
	forwarders []func(Change)
}

func NewHub() *Hub {
	return &Hub{
		origin:    uuid.NewString(),
		listeners: make(map[string]map[uint64]Listener),
	}
}

// Origin — идентификатор этого экземпляра в межпроцессных уведомлениях.
func (h *Hub) Origin() string { return h.origin }

// Subscribe добавляет слушателя коллекции. Повторный вызов unsubscribe — no-op.
func (h *Hub) Subscribe(collection string, l Listener) (unsubscribe func()) {
	h.mu.Lock()
	h.next++
	id := h.next
	if h.listeners[collection] == nil {
		h.listeners[collection] = make(map[uint64]Listener)
	}
	h.listeners[collection][id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners[collection], id)
			if len(h.listeners[collection]) == 0 {
				delete(h.listeners, collection)
			}
		})
	}
}

// Listeners — число активных слушателей коллекции.
func (h *Hub) Listeners(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[collection])
}

// Forward регистрирует исходящий канал (например, Redis) для локальных изменений.
func (h *Hub) Forward(fn func(Change)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forwarders = append(h.forwarders, fn)
}

// Publish доставляет локальное изменение подписчикам и пересылает его дальше.
func (h *Hub) Publish(c Change) {
	if c.Origin == "" {
		c.Origin = h.origin
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	h.Deliver(c)

	h.mu.RLock()
	forwarders := append([]func(Change){}, h.forwarders...)
	h.mu.RUnlock()
	for _, fn := range forwarders {
		fn(c)
	}
}

// Deliver доставляет изменение только локальным подписчикам.
func (h *Hub) Deliver(c Change) {
	h.mu.RLock()
	ids := make([]uint64, 0, len(h.listeners[c.Collection]))
	for id := range h.listeners[c.Collection] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ls := make([]Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, h.listeners[c.Collection][id])
	}
	h.mu.RUnlock()

	for _, l := range ls {
		l(c)
	}
}
