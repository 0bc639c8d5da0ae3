package request

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bloodlink/internal/donor"
	"bloodlink/internal/httperr"
)

// maxConcurrentSends bounds the SMS fan-out per request.
const maxConcurrentSends = 8

// Repository is the slice of request storage the service needs.
type Repository interface {
	Insert(ctx context.Context, req *Request) error
	List(ctx context.Context, status string) ([]*Request, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Request, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*Request, error)
	SetNotifiedDonors(ctx context.Context, id primitive.ObjectID, donorIDs []primitive.ObjectID) error
}

// DonorFinder resolves eligible donors for a request.
type DonorFinder interface {
	FindEligible(ctx context.Context, bloodGroup, city string) ([]*donor.Donor, error)
}

// Sender is the outbound SMS transport. A disabled sender skips notification
// entirely without affecting request creation.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, to, body string) error
}

type Service struct {
	repo   Repository
	donors DonorFinder
	sms    Sender
	log    *zap.SugaredLogger
}

func NewService(repo Repository, donors DonorFinder, sms Sender, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, donors: donors, sms: sms, log: log}
}

// Create persists a new open request, matches eligible donors, and fans out
// one SMS per match. The request is committed before any notification starts,
// so a failed send never loses the request.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.RequiredBloodGroup == "" || req.HospitalName == "" || req.City == "" || req.ContactNumber == "" {
		return nil, httperr.Validation("Missing required fields")
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	if urgency != UrgencyNormal && urgency != UrgencyUrgent && urgency != UrgencyCritical {
		return nil, httperr.Validation("Invalid urgency")
	}

	now := time.Now()
	doc := &Request{
		ID:                 primitive.NewObjectID(),
		RequiredBloodGroup: req.RequiredBloodGroup,
		HospitalName:       req.HospitalName,
		City:               req.City,
		ContactNumber:      req.ContactNumber,
		Urgency:            urgency,
		Status:             StatusOpen,
		NotifiedDonors:     []primitive.ObjectID{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return nil, err
	}

	matches, err := s.donors.FindEligible(ctx, req.RequiredBloodGroup, req.City)
	if err != nil {
		return nil, err
	}
	s.log.Infow("Matched donors for new request", "request", doc.ID.Hex(), "matches", len(matches))

	notified := 0
	if s.sms != nil && s.sms.Enabled() && len(matches) > 0 {
		notifiedIDs := s.notifyDonors(ctx, doc, matches)
		notified = len(notifiedIDs)
		if err := s.repo.SetNotifiedDonors(ctx, doc.ID, notifiedIDs); err != nil {
			s.log.Errorw("Failed to record notified donors", "request", doc.ID.Hex(), "error", err)
		} else {
			doc.NotifiedDonors = notifiedIDs
		}
	} else {
		s.log.Info("Twilio not configured or no donors matched, skipping SMS sending")
	}

	message := "Request created. No matching donors right now, but your request is visible in the network."
	if notified > 0 {
		message = fmt.Sprintf("Request created and %d donors notified via SMS.", notified)
	}

	return &CreateResult{
		Request:       doc,
		Matches:       matches,
		NotifiedCount: notified,
		Message:       message,
	}, nil
}

// notifyDonors sends one SMS per matched donor, all concurrently, and returns
// the ids of donors whose send succeeded. Individual failures are logged and
// never cancel sibling sends.
func (s *Service) notifyDonors(ctx context.Context, req *Request, matches []*donor.Donor) []primitive.ObjectID {
	body := fmt.Sprintf("Emergency %s request at %s, %s. Contact: %s. Urgency: %s",
		req.RequiredBloodGroup, req.HospitalName, req.City, req.ContactNumber, req.Urgency)

	var mu sync.Mutex
	notified := []primitive.ObjectID{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for _, d := range matches {
		d := d
		if d.Phone == "" {
			continue
		}
		g.Go(func() error {
			if err := s.sms.Send(gctx, d.Phone, body); err != nil {
				s.log.Warnw("Failed to send SMS", "donor", d.ID.Hex(), "error", err)
				return nil
			}
			mu.Lock()
			notified = append(notified, d.ID)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // closures never return errors; failures are logged above
	return notified
}

// List returns requests by status, defaulting to open.
func (s *Service) List(ctx context.Context, status string) ([]*Request, error) {
	if status == "" {
		status = StatusOpen
	}
	return s.repo.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Request, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, httperr.NotFound("Request not found")
	}
	return req, nil
}

// Close sets the request to closed. The write is an unconditional overwrite:
// closing an already-closed request succeeds and only moves updatedAt.
func (s *Service) Close(ctx context.Context, id primitive.ObjectID) (*Request, error) {
	req, err := s.repo.SetStatus(ctx, id, StatusClosed)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, httperr.NotFound("Request not found")
	}
	s.log.Infow("Request closed", "id", id.Hex())
	return req, nil
}
