package auth

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/config"
	"bloodlink/internal/httperr"
)

// Repository is the slice of user storage the service needs.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAdminByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	CreateUser(ctx context.Context, user *User) error
}

type Service struct {
	repo Repository
	cfg  *config.Config
	log  *zap.SugaredLogger
}

func NewService(repo Repository, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login authenticates an admin account and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *User, error) {
	if req.Email == "" || req.Password == "" {
		return "", nil, httperr.Validation("Email and password required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", nil, httperr.Unauthorized("Invalid email or password")
	}

	token, err := GenerateToken([]byte(s.cfg.JWTSecret), user.ID, user.Role, TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RegisterAdmin creates a new admin account. The endpoint is a bootstrap
// convenience and stays disabled unless ALLOW_ADMIN_SIGNUP is set.
func (s *Service) RegisterAdmin(ctx context.Context, req RegisterRequest) (*User, error) {
	if !s.cfg.AllowAdminSignup {
		return nil, httperr.Forbidden("Admin signup is disabled")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, httperr.Validation("All fields are required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.Validation("User already exists")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infow("Admin user created", "email", email)
	return user, nil
}

// EnsureDefaultAdmin provisions the bootstrap admin account on first run.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	existing, err := s.repo.FindByEmail(ctx, s.cfg.DefaultAdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Info("Admin user already exists")
		return nil
	}

	passwordHash, err := HashPassword(s.cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         "Admin",
		Email:        s.cfg.DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}
	s.log.Infow("Admin user auto-created, change DEFAULT_ADMIN_EMAIL / DEFAULT_ADMIN_PASSWORD for production",
		"email", s.cfg.DefaultAdminEmail)
	return nil
}
