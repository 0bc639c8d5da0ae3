package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/config"
	"bloodlink/internal/httperr"
)

type stubUserRepo struct {
	byEmail map[string]*User
	created []*User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*User{}}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.byEmail[email], nil
}

func (s *stubUserRepo) FindAdminByEmail(ctx context.Context, email string) (*User, error) {
	user := s.byEmail[email]
	if user == nil || user.Role != RoleAdmin {
		return nil, nil
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *User) error {
	s.created = append(s.created, user)
	s.byEmail[user.Email] = user
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		DefaultAdminEmail:    "admin@gmail.com",
		DefaultAdminPassword: "admin123",
		AllowAdminSignup:     true,
	}
}

func seedAdmin(t *testing.T, repo *stubUserRepo, email, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user := &User{ID: primitive.NewObjectID(), Name: "Admin", Email: email, PasswordHash: hash, Role: RoleAdmin}
	repo.byEmail[email] = user
	return user
}

func TestLoginIssuesTokenForAdmin(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedAdmin(t, repo, "admin@gmail.com", "admin123")
	svc := NewService(repo, testConfig(), zap.NewNop().Sugar())

	token, user, err := svc.Login(context.Background(), LoginRequest{Email: "Admin@Gmail.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	claims, err := ParseToken([]byte("test-secret"), token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID.Hex(), claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	repo := newStubUserRepo()
	seedAdmin(t, repo, "admin@gmail.com", "admin123")
	svc := NewService(repo, testConfig(), zap.NewNop().Sugar())

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "admin@gmail.com", Password: "nope"})
	require.Error(t, err)

	status, message := httperr.Status(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", message)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := NewService(newStubUserRepo(), testConfig(), zap.NewNop().Sugar())

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	require.Error(t, err)

	status, _ := httperr.Status(err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterDisabledByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.AllowAdminSignup = false
	svc := NewService(newStubUserRepo(), cfg, zap.NewNop().Sugar())

	_, err := svc.RegisterAdmin(context.Background(), RegisterRequest{Name: "A", Email: "a@b.c", Password: "pw"})
	require.Error(t, err)

	status, _ := httperr.Status(err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRegisterCreatesAdminWithLowercasedEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo, testConfig(), zap.NewNop().Sugar())

	user, err := svc.RegisterAdmin(context.Background(), RegisterRequest{Name: "A", Email: "New@Example.Com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, CheckPasswordHash("pw", user.PasswordHash))
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	repo := newStubUserRepo()
	seedAdmin(t, repo, "taken@example.com", "pw")
	svc := NewService(repo, testConfig(), zap.NewNop().Sugar())

	_, err := svc.RegisterAdmin(context.Background(), RegisterRequest{Name: "A", Email: "taken@example.com", Password: "pw"})
	require.Error(t, err)

	status, message := httperr.Status(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", message)
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo, testConfig(), zap.NewNop().Sugar())

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))

	assert.Len(t, repo.created, 1)
	assert.Equal(t, RoleAdmin, repo.created[0].Role)
	assert.Equal(t, "admin@gmail.com", repo.created[0].Email)
}
