// Package memory is an in-process document store implementing the domain
// repositories. It backs the "memory" storage driver and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain/entity"
)

// collection keeps documents in insertion order.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id string, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) values() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// newestFirst orders docs by created time descending; ties keep the most
// recently inserted first.
func newestFirst[T any](docs []T, createdAt func(T) time.Time) {
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return createdAt(docs[i]).After(createdAt(docs[j]))
	})
}

func page[T any](docs []T, limit, offset int) []T {
	if offset >= len(docs) {
		return []T{}
	}
	if offset < 0 {
		offset = 0
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end]
}

// Store holds every collection behind one lock.
type Store struct {
	mu sync.RWMutex

	users         *collection[*entity.User]
	usersByEmail  map[string]string
	services      *collection[*entity.Service]
	bookings      *collection[*entity.Booking]
	reviews       *collection[*entity.Review]
	conversations *collection[*entity.Conversation]
	messages      *collection[*entity.Message]

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         newCollection[*entity.User](),
		usersByEmail:  make(map[string]string),
		services:      newCollection[*entity.Service](),
		bookings:      newCollection[*entity.Booking](),
		reviews:       newCollection[*entity.Review](),
		conversations: newCollection[*entity.Conversation](),
		messages:      newCollection[*entity.Message](),
		now:           time.Now,
	}
}

func newID() string {
	return uuid.New().String()
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func cloneService(s *entity.Service) *entity.Service {
	c := *s
	c.Images = append([]string{}, s.Images...)
	return &c
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	if b.EndDate != nil {
		d := *b.EndDate
		c.EndDate = &d
	}
	return &c
}

func cloneReview(r *entity.Review) *entity.Review {
	c := *r
	if r.RepliedAt != nil {
		t := *r.RepliedAt
		c.RepliedAt = &t
	}
	return &c
}

func cloneConversation(cv *entity.Conversation) *entity.Conversation {
	c := *cv
	c.Participants = append([]string{}, cv.Participants...)
	c.UnreadCount = make(map[string]int, len(cv.UnreadCount))
	for k, v := range cv.UnreadCount {
		c.UnreadCount[k] = v
	}
	return &c
}

func cloneMessage(m *entity.Message) *entity.Message {
	c := *m
	return &c
}

// Ping satisfies the health check's store probe.
func (s *Store) Ping(context.Context) error {
	return nil
}
