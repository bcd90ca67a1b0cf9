package entity

import (
	"time"
)

// Application Status
const (
	StatusPending       = "pending"
	StatusUnderReview   = "under review"
	StatusApproved      = "approved"
	StatusIncomplete    = "incomplete"
	StatusResigned      = "resigned"
	StatusChangeCompany = "change company"
	StatusInvalid       = "invalid"
)

// allowedStatuses is the fixed status vocabulary. The portal does not let
// operators define their own states.
var allowedStatuses = map[string]bool{
	StatusPending:       true,
	StatusUnderReview:   true,
	StatusApproved:      true,
	StatusIncomplete:    true,
	StatusResigned:      true,
	StatusChangeCompany: true,
	StatusInvalid:       true,
}

// IsValidStatus reports whether status is part of the fixed lifecycle set.
func IsValidStatus(status string) bool {
	return allowedStatuses[status]
}

// StatusHistoryEntry is one audit record on an application. Entries are
// append-only and never mutated after being written.
type StatusHistoryEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Remarks   string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	ActorID   string    `bson:"actorId" json:"actorId"`
}

// CertificateSummary is a denormalized copy of the most recent certificate's
// key fields, kept on the application so list views render without a join.
type CertificateSummary struct {
	ID        string    `bson:"id" json:"id"`
	Type      string    `bson:"type" json:"type"`
	IssuedAt  time.Time `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

// Application is an employee or company registration tracked through the
// certification lifecycle. Status always equals the status of the last
// history entry; both are written together in a single update.
type Application struct {
	ID                string               `bson:"_id,omitempty" json:"id"`
	Kind              string               `bson:"kind" json:"kind"` // "employee" or "company"
	FullName          string               `bson:"fullName" json:"fullName"`
	CompanyName       string               `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Designation       string               `bson:"designation,omitempty" json:"designation,omitempty"`
	TrainingCertRef   string               `bson:"trainingCertRef,omitempty" json:"trainingCertRef,omitempty"`
	ContactEmail      string               `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	Status            string               `bson:"status" json:"status"`
	StatusHistory     []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`
	CertificateIDs    []string             `bson:"certificateIds" json:"certificateIds"`
	LatestCertificate *CertificateSummary  `bson:"latestCertificate,omitempty" json:"latestCertificate,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CurrentStatus returns the status of the last history entry, or the stored
// status when the history is empty (legacy records imported without a trail).
func (a *Application) CurrentStatus() string {
	if len(a.StatusHistory) == 0 {
		return a.Status
	}
	return a.StatusHistory[len(a.StatusHistory)-1].Status
}

// HasCertificate reports whether certID is already linked to the application.
func (a *Application) HasCertificate(certID string) bool {
	for _, id := range a.CertificateIDs {
		if id == certID {
			return true
		}
	}
	return false
}
