package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bloodlink/internal/donor"
	"bloodlink/internal/request"
)

type stubRequests struct {
	created *request.CreateRequest
	result  *request.CreateResult
	found   *request.Request
}

func (s *stubRequests) Create(ctx context.Context, req request.CreateRequest) (*request.CreateResult, error) {
	s.created = &req
	if s.result == nil {
		return nil, errors.New("store down")
	}
	return s.result, nil
}

func (s *stubRequests) Get(ctx context.Context, id primitive.ObjectID) (*request.Request, error) {
	if s.found == nil {
		return nil, errors.New("not found")
	}
	return s.found, nil
}

type stubDonors struct {
	registered *donor.RegisterRequest
}

func (s *stubDonors) Register(ctx context.Context, req donor.RegisterRequest) (*donor.Donor, error) {
	s.registered = &req
	return &donor.Donor{ID: primitive.NewObjectID(), Name: req.Name}, nil
}

func newTestService(requests *stubRequests, donors *stubDonors) *Service {
	return NewService(requests, donors, zap.NewNop().Sugar())
}

func send(t *testing.T, svc *Service, sessionID, message string) *Reply {
	t.Helper()
	reply := svc.Handle(context.Background(), sessionID, message)
	require.NotEmpty(t, reply.SessionID)
	require.NotEmpty(t, reply.Replies)
	return reply
}

func TestUnknownInputShowsHelp(t *testing.T) {
	svc := newTestService(&stubRequests{}, &stubDonors{})

	reply := send(t, svc, "", "what is this")
	assert.Contains(t, reply.Replies[0], "Sorry, I didn't understand")
	assert.Equal(t, quickSuggestions, reply.Suggestions)
}

func TestNeedBloodFlowCreatesUrgentRequest(t *testing.T) {
	id := primitive.NewObjectID()
	requests := &stubRequests{result: &request.CreateResult{Request: &request.Request{ID: id}}}
	svc := newTestService(requests, &stubDonors{})

	reply := send(t, svc, "", "I need blood")
	session := reply.SessionID
	assert.Contains(t, reply.Replies[0], "blood group")

	send(t, svc, session, "O+")
	send(t, svc, session, "Pune")
	send(t, svc, session, "City Hospital")
	reply = send(t, svc, session, "9999")

	require.NotNil(t, requests.created)
	assert.Equal(t, request.CreateRequest{
		RequiredBloodGroup: "O+",
		City:               "Pune",
		HospitalName:       "City Hospital",
		ContactNumber:      "9999",
		Urgency:            request.UrgencyUrgent,
	}, *requests.created)
	assert.Contains(t, reply.Replies[0], id.Hex())
	assert.Equal(t, quickSuggestions, reply.Suggestions)

	// flow is done, the session is back to intent detection
	reply = send(t, svc, session, "hello?")
	assert.Contains(t, reply.Replies[0], "Sorry, I didn't understand")
}

func TestDonateFlowRegistersDonorWithSkippedArea(t *testing.T) {
	donors := &stubDonors{}
	svc := newTestService(&stubRequests{}, donors)

	reply := send(t, svc, "", "donate")
	session := reply.SessionID

	send(t, svc, session, "Asha")
	send(t, svc, session, "Pune")
	send(t, svc, session, "skip")
	send(t, svc, session, "12345")
	reply = send(t, svc, session, "B+")

	require.NotNil(t, donors.registered)
	assert.Equal(t, donor.RegisterRequest{
		Name:       "Asha",
		City:       "Pune",
		Area:       "",
		Phone:      "12345",
		BloodGroup: "B+",
	}, *donors.registered)
	assert.Contains(t, reply.Replies[0], "Asha")
}

func TestTrackReportsRequestStatus(t *testing.T) {
	id := primitive.NewObjectID()
	requests := &stubRequests{found: &request.Request{
		ID:                 id,
		Status:             request.StatusOpen,
		RequiredBloodGroup: "O+",
		HospitalName:       "City Hospital",
		City:               "Pune",
	}}
	svc := newTestService(requests, &stubDonors{})

	reply := send(t, svc, "", "track "+id.Hex())
	assert.Contains(t, reply.Replies[0], "Status: open")
	assert.Contains(t, reply.Replies[0], "City Hospital")
}

func TestTrackWithoutIDPrompts(t *testing.T) {
	svc := newTestService(&stubRequests{}, &stubDonors{})

	reply := send(t, svc, "", "track")
	assert.Contains(t, reply.Replies[0], "request ID after 'track'")
}

func TestTrackUnknownIDFailsGracefully(t *testing.T) {
	svc := newTestService(&stubRequests{}, &stubDonors{})

	reply := send(t, svc, "", "track 123-not-an-id")
	assert.Contains(t, reply.Replies[0], "Could not find that request ID")
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService(&stubRequests{}, &stubDonors{})

	a := send(t, svc, "", "need blood")
	b := send(t, svc, "", "donate")
	require.NotEqual(t, a.SessionID, b.SessionID)

	// the need-blood session asks for a city next, the donate one for a city
	// too but from a different flow; each answer only advances its own session
	replyA := send(t, svc, a.SessionID, "O+")
	assert.Contains(t, replyA.Replies[0], "city is the patient")

	replyB := send(t, svc, b.SessionID, "Asha")
	assert.Contains(t, replyB.Replies[0], "City?")
}

func TestConcurrentMessagesOnOneSessionDoNotRace(t *testing.T) {
	id := primitive.NewObjectID()
	requests := &stubRequests{result: &request.CreateResult{Request: &request.Request{ID: id}}}
	svc := newTestService(requests, &stubDonors{})

	session := send(t, svc, "", "need blood").SessionID

	var wg sync.WaitGroup
	answers := []string{"O+", "Pune", "City Hospital", "9999"}
	for _, answer := range answers {
		answer := answer
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply := svc.Handle(context.Background(), session, answer)
			assert.NotEmpty(t, reply.Replies)
		}()
	}
	wg.Wait()

	// whatever order the turns landed in, the session is still usable
	reply := send(t, svc, session, "skip")
	assert.NotEmpty(t, reply.Replies)
}

func TestRequestCreationFailureFallsBackToSite(t *testing.T) {
	svc := newTestService(&stubRequests{result: nil}, &stubDonors{})

	reply := send(t, svc, "", "need blood")
	session := reply.SessionID
	send(t, svc, session, "O+")
	send(t, svc, session, "Pune")
	send(t, svc, session, "H")
	reply = send(t, svc, session, "1")

	assert.Contains(t, reply.Replies[0], "Error creating request")
}
