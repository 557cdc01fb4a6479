package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain/entity"
	"eventhub/pkg/errors"
)

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "a@example.com", Role: entity.RoleCustomer}))
	err := repo.Create(ctx, &entity.User{Email: "A@example.com", Role: entity.RoleCustomer})

	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	u := &entity.User{Email: "a@example.com", FirstName: "Ann"}
	require.NoError(t, repo.Create(ctx, u))
	u.FirstName = "Mutated"

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
}

func TestServiceRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	repo := NewServiceRepository(store)

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &entity.Service{Title: title, IsActive: true}))
	}

	items, total, err := repo.List(ctx, entity.ServiceFilter{}, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "second", items[1].Title)

	items, _, err = repo.List(ctx, entity.ServiceFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].Title)
}

func TestServiceRepositoryUpdateKeepsAggregate(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRepository(NewStore())

	s := &entity.Service{Title: "DJ"}
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.UpdateRating(ctx, s.ID, 4.5, 2))

	s.Title = "DJ Deluxe"
	s.Rating = 1
	s.ReviewCount = 99
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "DJ Deluxe", got.Title)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestReviewRepositoryUniquePerBookingAndCustomer(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository(NewStore())

	require.NoError(t, repo.Create(ctx, &entity.Review{BookingID: "b1", CustomerID: "c1", ServiceID: "s1", Rating: 5}))
	err := repo.Create(ctx, &entity.Review{BookingID: "b1", CustomerID: "c1", ServiceID: "s1", Rating: 3})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	ratings, err := repo.RatingsByService(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ratings)
}

func TestConversationRecordMessageIsAtomicUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(NewStore())
	seed := &entity.Conversation{ID: "k1", Participants: []string{"a", "b"}, UnreadCount: map[string]int{}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordMessage(ctx, seed, "b", "hi", time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	convs, err := repo.List(ctx, entity.ConversationFilter{ParticipantID: "a"})
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 20, convs[0].UnreadFor("b"))
	assert.Equal(t, 0, convs[0].UnreadFor("a"))
}

func TestConversationMessagesLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(NewStore())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{ConversationID: "k1", SenderID: "a", ReceiverID: "b", Content: "2", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{ConversationID: "k1", SenderID: "b", ReceiverID: "a", Content: "1", CreatedAt: base}))
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{ConversationID: "other", SenderID: "a", ReceiverID: "b", Content: "x"}))

	msgs, err := repo.ListMessages(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].Content)
	assert.Equal(t, "2", msgs[1].Content)

	marked, err := repo.MarkMessagesRead(ctx, "k1", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	marked, err = repo.MarkMessagesRead(ctx, "k1", "b")
	require.NoError(t, err)
	assert.Equal(t, 0, marked)

	deleted, err := repo.DeleteMessages(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	msgs, err = repo.ListMessages(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
