package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eventhub/pkg/errors"
)

const (
	usersCollection         = "users"
	userEmailsCollection    = "user_emails"
	servicesCollection      = "services"
	bookingsCollection      = "bookings"
	reviewsCollection       = "reviews"
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// readError maps a failed document read to NOT_FOUND or INTERNAL.
func readError(resource string, err error) error {
	if isNotFound(err) {
		return errors.NotFound(resource, err)
	}
	return errors.Internal("Failed to get "+resource, err)
}

// decodeAll drains iter into T values.
func decodeAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	out := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func pageSlice[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	if offset < 0 {
		offset = 0
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// FirestorePing issues a one-document read to prove the client can reach
// the database.
func FirestorePing(client *firestore.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		iter := client.Collection(servicesCollection).Limit(1).Documents(ctx)
		defer iter.Stop()
		if _, err := iter.Next(); err != nil && err != iterator.Done {
			return err
		}
		return nil
	}
}
