package request

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bloodlink/internal/donor"
)

const (
	UrgencyNormal   = "normal"
	UrgencyUrgent   = "urgent"
	UrgencyCritical = "critical"

	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Request struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	RequiredBloodGroup string               `bson:"requiredBloodGroup" json:"requiredBloodGroup"`
	HospitalName       string               `bson:"hospitalName" json:"hospitalName"`
	City               string               `bson:"city" json:"city"`
	ContactNumber      string               `bson:"contactNumber" json:"contactNumber"`
	Urgency            string               `bson:"urgency" json:"urgency"`
	Status             string               `bson:"status" json:"status"`
	NotifiedDonors     []primitive.ObjectID `bson:"notifiedDonors" json:"notifiedDonors"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	RequiredBloodGroup string `json:"requiredBloodGroup"`
	HospitalName       string `json:"hospitalName"`
	City               string `json:"city"`
	ContactNumber      string `json:"contactNumber"`
	Urgency            string `json:"urgency"`
}

// CreateResult is the 201 body for a new request: the persisted record, the
// full match list, and how many donors an SMS actually reached.
type CreateResult struct {
	Request       *Request       `json:"request"`
	Matches       []*donor.Donor `json:"matches"`
	NotifiedCount int            `json:"notifiedCount"`
	Message       string         `json:"message"`
}
