package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/donor"
	"bloodlink/internal/request"
)

// sessionIdleTTL is how long an inactive conversation is kept before its
// state is discarded.
const sessionIdleTTL = 30 * time.Minute

var quickSuggestions = []string{"need blood", "donate", "track request"}

// RequestClient is the slice of the request dispatcher the assistant uses.
type RequestClient interface {
	Create(ctx context.Context, req request.CreateRequest) (*request.CreateResult, error)
	Get(ctx context.Context, id primitive.ObjectID) (*request.Request, error)
}

// DonorClient is the slice of the donor directory the assistant uses.
type DonorClient interface {
	Register(ctx context.Context, req donor.RegisterRequest) (*donor.Donor, error)
}

type session struct {
	mu       sync.Mutex
	state    State
	req      request.CreateRequest
	don      donor.RegisterRequest
	lastSeen time.Time
}

// Service drives the scripted assistant. Each conversation owns an explicit
// session object keyed by id; there is no shared flow state between clients.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	requests RequestClient
	donors   DonorClient
	log      *zap.SugaredLogger
}

func NewService(requests RequestClient, donors DonorClient, log *zap.SugaredLogger) *Service {
	return &Service{
		sessions: make(map[string]*session),
		requests: requests,
		donors:   donors,
		log:      log,
	}
}

// Handle advances the session's dialogue with one user message.
func (s *Service) Handle(ctx context.Context, sessionID, message string) *Reply {
	s.mu.Lock()
	s.pruneLocked()

	sess, ok := s.sessions[sessionID]
	if sessionID == "" || !ok {
		sessionID = uuid.NewString()
		sess = &session{state: StateIdle}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = time.Now()
	s.mu.Unlock()

	// One turn per session at a time; concurrent messages carrying the same
	// session id queue up instead of racing on the flow state.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	reply := &Reply{SessionID: sessionID}
	if sess.state == StateIdle {
		s.handleIdle(ctx, sess, message, reply)
	} else {
		s.advanceFlow(ctx, sess, message, reply)
	}
	return reply
}

func (s *Service) pruneLocked() {
	cutoff := time.Now().Add(-sessionIdleTTL)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *Service) handleIdle(ctx context.Context, sess *session, message string, reply *Reply) {
	text := strings.ToLower(strings.TrimSpace(message))

	switch {
	case strings.Contains(text, "need") || strings.Contains(text, "blood"):
		sess.state = StateNeedBloodGroup
		sess.req = request.CreateRequest{}
		reply.Replies = append(reply.Replies, "Okay, what blood group is required? (e.g. A+)")

	case strings.Contains(text, "donate"):
		sess.state = StateDonateName
		sess.don = donor.RegisterRequest{}
		reply.Replies = append(reply.Replies, "Great! What's your full name?")

	case strings.HasPrefix(text, "track"):
		s.trackRequest(ctx, text, reply)

	default:
		reply.Replies = append(reply.Replies, "Sorry, I didn't understand. Try: 'need blood', 'donate', or 'track [id]'.")
		reply.Suggestions = quickSuggestions
	}
}

func (s *Service) trackRequest(ctx context.Context, text string, reply *Reply) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		reply.Replies = append(reply.Replies, "Please send the request ID after 'track'. Example: 'track 60a6...'")
		return
	}

	id, err := primitive.ObjectIDFromHex(parts[1])
	if err == nil {
		var req *request.Request
		req, err = s.requests.Get(ctx, id)
		if err == nil {
			reply.Replies = append(reply.Replies, fmt.Sprintf("Status: %s. Blood: %s. Hospital: %s, %s",
				req.Status, req.RequiredBloodGroup, req.HospitalName, req.City))
			return
		}
	}
	reply.Replies = append(reply.Replies, "Could not find that request ID. Check and try again.")
}

func (s *Service) advanceFlow(ctx context.Context, sess *session, message string, reply *Reply) {
	answer := strings.TrimSpace(message)

	switch sess.state {
	case StateNeedBloodGroup:
		sess.req.RequiredBloodGroup = answer
		sess.state = StateNeedCity
		reply.Replies = append(reply.Replies, "Which city is the patient in?")

	case StateNeedCity:
		sess.req.City = answer
		sess.state = StateNeedHospital
		reply.Replies = append(reply.Replies, "Hospital name?")

	case StateNeedHospital:
		sess.req.HospitalName = answer
		sess.state = StateNeedContact
		reply.Replies = append(reply.Replies, "Contact number for the hospital or family?")

	case StateNeedContact:
		sess.req.ContactNumber = answer
		sess.req.Urgency = request.UrgencyUrgent
		s.createRequest(ctx, sess, reply)
		s.reset(sess, reply)

	case StateDonateName:
		sess.don.Name = answer
		sess.state = StateDonateCity
		reply.Replies = append(reply.Replies, "City?")

	case StateDonateCity:
		sess.don.City = answer
		sess.state = StateDonateArea
		reply.Replies = append(reply.Replies, "Area / landmark? (or 'skip')")

	case StateDonateArea:
		if !strings.EqualFold(answer, "skip") {
			sess.don.Area = answer
		}
		sess.state = StateDonatePhone
		reply.Replies = append(reply.Replies, "Phone number?")

	case StateDonatePhone:
		sess.don.Phone = answer
		sess.state = StateDonateGroup
		reply.Replies = append(reply.Replies, "Blood group (e.g. O+)?")

	case StateDonateGroup:
		sess.don.BloodGroup = answer
		s.registerDonor(ctx, sess, reply)
		s.reset(sess, reply)

	default:
		s.reset(sess, reply)
	}
}

func (s *Service) createRequest(ctx context.Context, sess *session, reply *Reply) {
	result, err := s.requests.Create(ctx, sess.req)
	if err != nil {
		s.log.Warnw("Chat request creation failed", "error", err)
		reply.Replies = append(reply.Replies, "Error creating request. You can try the 'Need Blood' page on the site.")
		return
	}
	reply.Replies = append(reply.Replies, fmt.Sprintf("Done, request created. ID: %s", result.Request.ID.Hex()))
}

func (s *Service) registerDonor(ctx context.Context, sess *session, reply *Reply) {
	d, err := s.donors.Register(ctx, sess.don)
	if err != nil {
		s.log.Warnw("Chat donor registration failed", "error", err)
		reply.Replies = append(reply.Replies, "Error registering you as a donor. You can try the 'Donate' page on the site.")
		return
	}
	reply.Replies = append(reply.Replies, fmt.Sprintf("Thanks %s, you are registered. An admin will verify your profile before you get matched.", d.Name))
}

func (s *Service) reset(sess *session, reply *Reply) {
	sess.state = StateIdle
	sess.req = request.CreateRequest{}
	sess.don = donor.RegisterRequest{}
	reply.Suggestions = quickSuggestions
}
