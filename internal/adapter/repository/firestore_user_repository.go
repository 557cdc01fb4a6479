package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

// Create reserves the email in user_emails and writes the user in one
// transaction, so two registrations with the same email cannot both succeed.
func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	emailRef := r.client.Collection(userEmailsCollection).Doc(strings.ToLower(user.Email))
	userRef := r.client.Collection(usersCollection).Doc(user.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(emailRef)
		if err == nil {
			return errors.Conflict("Email already registered", nil)
		}
		if !isNotFound(err) {
			return err
		}

		if err := tx.Create(emailRef, map[string]interface{}{"userId": user.ID}); err != nil {
			return err
		}
		return tx.Create(userRef, user)
	})
	if err != nil {
		if errors.Is(err, errors.CodeConflict) {
			return err
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, readError("User", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := r.client.Collection(userEmailsCollection).Doc(strings.ToLower(email)).Get(ctx)
	if err != nil {
		return nil, readError("User", err)
	}

	userID, _ := doc.Data()["userId"].(string)
	if userID == "" {
		return nil, errors.NotFound("User", nil)
	}
	return r.GetByID(ctx, userID)
}

func (r *firestoreUserRepository) GetMany(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, r.client.Collection(usersCollection).Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}

	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		out[user.ID] = &user
	}
	return out, nil
}

// Update merges profile and password fields. Email is immutable.
func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	updateData := map[string]interface{}{
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"passwordHash": user.PasswordHash,
		"phone":        user.Phone,
		"bio":          user.Bio,
		"avatarURL":    user.AvatarURL,
		"businessName": user.BusinessName,
		"location":     user.Location,
		"updatedAt":    user.UpdatedAt,
	}

	ref := r.client.Collection(usersCollection).Doc(user.ID)
	if _, err := ref.Get(ctx); err != nil {
		return readError("User", err)
	}

	if _, err := ref.Set(ctx, updateData, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context, role entity.Role, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection(usersCollection).Query
	if role != "" {
		query = query.Where("role", "==", string(role))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	users, err := decodeAll[entity.User](query.Documents(ctx))
	if err != nil {
		return nil, 0, errors.Internal("Failed to list users", err)
	}

	return pageSlice(users, limit, offset), int64(len(users)), nil
}
