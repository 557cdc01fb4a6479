package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/adapter/api"
	"eventhub/internal/adapter/api/handler"
	"eventhub/internal/adapter/api/middleware"
	"eventhub/internal/adapter/repository/memory"
	"eventhub/internal/domain/entity"
	"eventhub/internal/domain/repository"
	"eventhub/internal/infrastructure/cache"
	"eventhub/internal/infrastructure/events"
	"eventhub/internal/infrastructure/token"
	"eventhub/internal/usecase"
	"eventhub/pkg/logger"
	"eventhub/pkg/response"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testServer struct {
	e     *echo.Echo
	users repository.UserRepository
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	serviceRepo := memory.NewServiceRepository(store)
	bookingRepo := memory.NewBookingRepository(store)
	reviewRepo := memory.NewReviewRepository(store)
	convRepo := memory.NewConversationRepository(store)

	hasher := token.NewPasswordHasher(4)
	jwt := token.NewJWTManager("test-secret", time.Hour)
	publisher := events.NewLogPublisher()

	authUseCase := usecase.NewAuthUseCase(userRepo, hasher, jwt)
	userUseCase := usecase.NewUserUseCase(userRepo, hasher)
	serviceUseCase := usecase.NewServiceUseCase(serviceRepo, userRepo, reviewRepo, nil)
	bookingUseCase := usecase.NewBookingUseCase(bookingRepo, serviceRepo, userRepo, publisher)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, bookingRepo, serviceRepo, userRepo, publisher)
	conversationUseCase := usecase.NewConversationUseCase(convRepo, userRepo, serviceRepo, bookingRepo, nil)

	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()

	Setup(e, Handlers{
		Auth:         handler.NewAuthHandler(authUseCase, false),
		User:         handler.NewUserHandler(userUseCase),
		Service:      handler.NewServiceHandler(serviceUseCase, reviewUseCase),
		Booking:      handler.NewBookingHandler(bookingUseCase),
		Review:       handler.NewReviewHandler(reviewUseCase),
		Conversation: handler.NewConversationHandler(conversationUseCase),
		Health:       handler.NewHealthHandler(map[string]handler.PingFunc{"store": store.Ping}),
	}, Options{
		AuthMiddleware:  middleware.NewAuthMiddleware(jwt),
		AdminMiddleware: middleware.NewAdminMiddleware(userRepo),
		Cache:           cache.NewMemoryStore(),
		CacheTTL:        time.Minute,
	})

	return &testServer{e: e, users: userRepo}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type account struct {
	Token string
	ID    string
}

func (s *testServer) register(t *testing.T, first, role string) account {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": first,
		"last_name":  "Test",
		"email":      strings.ToLower(first) + "@example.com",
		"password":   "password123",
		"role":       role,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Token string      `json:"token"`
		User  entity.User `json:"user"`
	}
	decode(t, rec, &out)
	return account{Token: out.Token, ID: out.User.ID}
}

func (s *testServer) createService(t *testing.T, provider account, title string) entity.Service {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/services", map[string]interface{}{
		"title":       title,
		"description": "Four-piece band for weddings",
		"category":    "music",
		"price":       500,
		"location":    "Austin",
	}, provider.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var svc entity.Service
	decode(t, rec, &svc)
	return svc
}

func TestBookingToReviewFlow(t *testing.T) {
	s := newTestServer(t)
	provider := s.register(t, "Paula", "service_provider")
	customer := s.register(t, "Carl", "customer")
	svc := s.createService(t, provider, "Live Band")

	rec := s.do(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"service_id": svc.ID,
		"event_date": "2026-06-01",
		"end_date":   "2026-06-02",
	}, customer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking entity.Booking
	decode(t, rec, &booking)
	assert.Equal(t, entity.BookingPending, booking.Status)
	assert.Equal(t, provider.ID, booking.ProviderID)
	assert.Equal(t, 1000.0, booking.TotalPrice)

	// A customer cannot confirm their own booking.
	rec = s.do(t, http.MethodPatch, "/api/bookings/"+booking.ID, map[string]string{"status": "confirmed"}, customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, status := range []string{"confirmed", "completed"} {
		rec = s.do(t, http.MethodPatch, "/api/bookings/"+booking.ID, map[string]string{"status": status}, provider.Token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
		"booking_id": booking.ID,
		"rating":     4,
		"comment":    "Great set",
	}, customer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
		"booking_id": booking.ID,
		"rating":     5,
	}, customer.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/services/"+svc.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Rating      float64 `json:"rating"`
		ReviewCount int     `json:"review_count"`
		Provider    struct {
			ID string `json:"id"`
		} `json:"provider"`
		Reviews []struct {
			Rating int `json:"rating"`
		} `json:"reviews"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, 4.0, detail.Rating)
	assert.Equal(t, 1, detail.ReviewCount)
	assert.Equal(t, provider.ID, detail.Provider.ID)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, 4, detail.Reviews[0].Rating)
}

func TestUnauthenticatedVersusForbidden(t *testing.T) {
	s := newTestServer(t)
	customer := s.register(t, "Carl", "customer")

	rec := s.do(t, http.MethodPost, "/api/services", map[string]interface{}{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/services", map[string]interface{}{"title": "x"}, customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/users", nil, customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminListsUsers(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Carl", "customer")
	s.register(t, "Paula", "service_provider")

	admin := &entity.User{FirstName: "Root", Email: "admin@example.com", Role: entity.RoleAdmin}
	require.NoError(t, s.users.Create(context.Background(), admin))
	raw, _, err := token.NewJWTManager("test-secret", time.Hour).Issue(admin)
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/admin/users?role=customer", nil, raw)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Items []entity.User `json:"items"`
		Total int64         `json:"total"`
	}
	decode(t, rec, &page)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carl@example.com", page.Items[0].Email)
}

func TestRegisterValidationEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ann",
		"last_name":  "Lee",
		"password":   "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec, nil)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Ann", "customer")

	body := map[string]string{
		"first_name": "Ann",
		"last_name":  "Test",
		"email":      "ANN@example.com",
		"password":   "password123",
	}
	rec := s.do(t, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	body["email"] = "root@example.com"
	body["role"] = "admin"
	rec = s.do(t, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSetsCookieUsableForAuth(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Ann", "customer")

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.TokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	s.e.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)

	var user entity.User
	decode(t, me, &user)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotContains(t, me.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, "", cleared[0].Value)
}

func TestCatalogResponsesAreCachedUntilWrite(t *testing.T) {
	s := newTestServer(t)
	provider := s.register(t, "Paula", "service_provider")
	s.createService(t, provider, "Live Band")

	rec := s.do(t, http.MethodGet, "/api/services?category=music", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = s.do(t, http.MethodGet, "/api/services?category=music", nil, "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	s.createService(t, provider, "String Quartet")

	rec = s.do(t, http.MethodGet, "/api/services?category=music", nil, "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var page struct {
		Items []entity.Service `json:"items"`
		Total int64            `json:"total"`
	}
	decode(t, rec, &page)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "String Quartet", page.Items[0].Title)
}

func TestServiceListRejectsBadPrice(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/services?minPrice=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageUploadWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	provider := s.register(t, "Paula", "service_provider")
	svc := s.createService(t, provider, "Live Band")

	rec := s.do(t, http.MethodPost, "/api/services/"+svc.ID+"/images", nil, provider.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessagingFlow(t *testing.T) {
	s := newTestServer(t)
	provider := s.register(t, "Paula", "service_provider")
	customer := s.register(t, "Carl", "customer")
	outsider := s.register(t, "Olga", "customer")

	rec := s.do(t, http.MethodPost, "/api/messages", map[string]string{
		"receiver_id": provider.ID,
		"content":     "   ",
	}, customer.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/messages", map[string]string{
		"receiver_id": provider.ID,
		"content":     "Are you free in June?",
	}, customer.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var msg struct {
		ConversationID string `json:"conversation_id"`
		Read           bool   `json:"read"`
		Sender         struct {
			FirstName string `json:"first_name"`
		} `json:"sender"`
	}
	decode(t, rec, &msg)
	assert.False(t, msg.Read)
	assert.Equal(t, "Carl", msg.Sender.FirstName)

	rec = s.do(t, http.MethodGet, "/api/conversations/unread", nil, provider.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread struct {
		Unread int `json:"unread"`
	}
	decode(t, rec, &unread)
	assert.Equal(t, 1, unread.Unread)

	rec = s.do(t, http.MethodGet, "/api/conversations", nil, provider.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID               string `json:"id"`
		Unread           int    `json:"unread"`
		OtherParticipant struct {
			ID string `json:"id"`
		} `json:"other_participant"`
	}
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, msg.ConversationID, list[0].ID)
	assert.Equal(t, 1, list[0].Unread)
	assert.Equal(t, customer.ID, list[0].OtherParticipant.ID)

	rec = s.do(t, http.MethodGet, "/api/conversations/"+msg.ConversationID, nil, outsider.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/conversations/"+msg.ConversationID, nil, provider.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	decode(t, rec, &detail)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "Are you free in June?", detail.Messages[0].Content)

	rec = s.do(t, http.MethodGet, "/api/conversations/unread", nil, provider.Token)
	decode(t, rec, &unread)
	assert.Equal(t, 0, unread.Unread)

	// Starting the same conversation again returns the existing one.
	rec = s.do(t, http.MethodPost, "/api/conversations", map[string]string{"participant_id": customer.ID}, provider.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/conversations/"+msg.ConversationID, nil, customer.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/conversations/"+msg.ConversationID, nil, provider.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"up"`)
}
