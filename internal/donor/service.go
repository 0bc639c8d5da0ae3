package donor

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/httperr"
)

// Repository is the slice of donor storage the service needs.
type Repository interface {
	Insert(ctx context.Context, d *Donor) error
	Search(ctx context.Context, f SearchFilter) ([]*Donor, error)
	FindEligible(ctx context.Context, bloodGroup, city string) ([]*Donor, error)
	SetVerificationStatus(ctx context.Context, id primitive.ObjectID, status string) (*Donor, error)
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (*Donor, error)
}

type Service struct {
	repo Repository
	log  *zap.SugaredLogger
}

func NewService(repo Repository, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, log: log}
}

// Register creates a new donor. Every donor starts available and unverified
// no matter what the caller sends.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Donor, error) {
	if req.Name == "" || req.Phone == "" || req.City == "" || req.BloodGroup == "" {
		return nil, httperr.Validation("Missing required fields")
	}

	now := time.Now()
	d := &Donor{
		ID:                 primitive.NewObjectID(),
		Name:               req.Name,
		Phone:              req.Phone,
		City:               req.City,
		Area:               req.Area,
		BloodGroup:         req.BloodGroup,
		Availability:       true,
		VerificationStatus: StatusUnverified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}
	s.log.Infow("Donor registered", "id", d.ID.Hex(), "city", d.City, "bloodGroup", d.BloodGroup)
	return d, nil
}

func (s *Service) Search(ctx context.Context, f SearchFilter) ([]*Donor, error) {
	return s.repo.Search(ctx, f)
}

// ListAll returns every donor for the admin panel, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*Donor, error) {
	return s.repo.Search(ctx, SearchFilter{})
}

// FindEligible exposes the matching query to the request dispatcher.
func (s *Service) FindEligible(ctx context.Context, bloodGroup, city string) ([]*Donor, error) {
	return s.repo.FindEligible(ctx, bloodGroup, city)
}

// Verify marks a donor as verified. No transition validation: an admin can
// verify from any prior state.
func (s *Service) Verify(ctx context.Context, id primitive.ObjectID) (*Donor, error) {
	d, err := s.repo.SetVerificationStatus(ctx, id, StatusVerified)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, httperr.NotFound("Donor not found")
	}
	s.log.Infow("Donor verified", "id", id.Hex())
	return d, nil
}

// SetAvailability overwrites the donor's availability flag.
func (s *Service) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (*Donor, error) {
	d, err := s.repo.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, httperr.NotFound("Donor not found")
	}
	return d, nil
}
