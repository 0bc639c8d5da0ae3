package donor

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification states a donor moves through. Only verified donors are ever
// matched against requests.
const (
	StatusUnverified = "unverified"
	StatusPending    = "pending"
	StatusVerified   = "verified"
	StatusRejected   = "rejected"
)

type Donor struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name               string             `bson:"name" json:"name"`
	Phone              string             `bson:"phone" json:"phone"`
	City               string             `bson:"city" json:"city"`
	Area               string             `bson:"area,omitempty" json:"area,omitempty"`
	BloodGroup         string             `bson:"bloodGroup" json:"bloodGroup"`
	Availability       bool               `bson:"availability" json:"availability"`
	VerificationStatus string             `bson:"verificationStatus" json:"verificationStatus"`
	ReportURL          string             `bson:"reportUrl,omitempty" json:"reportUrl,omitempty"` // future file upload
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Area       string `json:"area"`
	BloodGroup string `json:"bloodGroup"`
}

// SearchFilter narrows a donor search. Zero values leave the corresponding
// field unconstrained.
type SearchFilter struct {
	BloodGroup   string
	City         string
	OnlyVerified bool
}

type AvailabilityRequest struct {
	Availability bool `json:"availability"`
}
