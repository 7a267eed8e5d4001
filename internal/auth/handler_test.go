package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// memUserRepo keeps accounts in memory, keyed by email.
type memUserRepo struct {
	nextID   int64
	accounts map[string]*users.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, accounts: map[string]*users.User{}}
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	u, ok := m.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	for _, u := range m.accounts {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, email, passwordHash string, name *string) (*users.User, error) {
	if _, ok := m.accounts[email]; ok {
		return nil, shared.ErrConflict
	}
	u := &users.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	m.nextID++
	m.accounts[email] = u
	return u, nil
}

func (m *memUserRepo) UpdateProfile(ctx context.Context, id int64, name, imageURL *string) (*users.User, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = name
	u.ImageURL = imageURL
	return u, nil
}

var _ users.Repository = (*memUserRepo)(nil)

type memSessionRepo struct {
	created []string
	deleted []string
}

func (m *memSessionRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	m.created = append(m.created, id)
	return nil
}

func (m *memSessionRepo) DeleteSession(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memSessionRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type authFixture struct {
	users    *memUserRepo
	sessions *memSessionRepo
	router   chi.Router
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	userRepo := newMemUserRepo()
	sessionRepo := &memSessionRepo{}
	svc := NewService(userRepo, sessionRepo)
	sm := shared.NewSessionManager(nil, "haven_session", "test-secret", time.Hour, false)
	h := NewHandler(slog.New(slog.DiscardHandler), svc, sm)

	r := chi.NewRouter()
	r.Route("/api/auth", h.MountRoutes)
	return &authFixture{users: userRepo, sessions: sessionRepo, router: r}
}

// post issues the request with a fresh in-flight session, the way the
// session middleware would.
func (f *authFixture) post(path, body string) (*httptest.ResponseRecorder, *shared.Session) {
	sess := &shared.Session{ID: "sess-test"}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec, sess
}

func (f *authFixture) seedUser(t *testing.T, email, password string) *users.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := f.users.Create(context.Background(), email, string(hashed), nil)
	require.NoError(t, err)
	return u
}

func TestAuthRejectsMissingFields(t *testing.T) {
	f := newAuthFixture(t)

	for _, body := range []string{
		`{"email":"a@b.com","isLogin":true}`,
		`{"password":"secret","isLogin":true}`,
		`{"email":"not-an-email","password":"secret"}`,
	} {
		rec, _ := f.post("/api/auth/", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Missing required fields"}`, rec.Body.String())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	rec, _ := f.post("/api/auth/", `{"email":"ghost@haven.local","password":"whatever","isLogin":true}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "me@haven.local", "right-password")

	rec, sess := f.post("/api/auth/", `{"email":"me@haven.local","password":"wrong","isLogin":true}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid password"}`, rec.Body.String())
	assert.False(t, sess.Authenticated())
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "me@haven.local", "right-password")

	rec, sess := f.post("/api/auth/", `{"email":"me@haven.local","password":"right-password","isLogin":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, sess.Authenticated())
	assert.Equal(t, seeded.ID, sess.UserID())
	assert.Equal(t, "me@haven.local", sess.Email())
	assert.Contains(t, f.sessions.created, "sess-test")

	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), seeded.PasswordHash)
	assert.JSONEq(t, `{"id":1,"email":"me@haven.local","name":null}`, rec.Body.String())
}

func TestRegisterCreatesAccountAndLogsIn(t *testing.T) {
	f := newAuthFixture(t)

	rec, sess := f.post("/api/auth/", `{"email":"new@haven.local","password":"secret","name":"New User"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	created, err := f.users.GetByEmail(context.Background(), "new@haven.local")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret")))

	assert.True(t, sess.Authenticated())
	assert.Equal(t, created.ID, sess.UserID())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "me@haven.local", "whatever")

	rec, _ := f.post("/api/auth/", `{"email":"me@haven.local","password":"secret"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)

	rec, _ := f.post("/api/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Contains(t, f.sessions.deleted, "sess-test")
}
