package entity

import (
	"fmt"
	"time"
)

// Certificate Type
const (
	CertTypeEndorsement    = "Endorsement"
	CertTypeRecommendation = "Recommendation"
)

// Certificate is an issued tourism endorsement or recommendation. Immutable
// after creation; removal is an administrative operation outside this service.
type Certificate struct {
	ID                string    `bson:"_id" json:"id"` // TOURISM-NNNN-YYYY
	Type              string    `bson:"type" json:"type"`
	IssuedAt          time.Time `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt         time.Time `bson:"expiresAt" json:"expiresAt"`
	ApplicationID     string    `bson:"applicationId" json:"applicationId"`
	IssuingVerifierID string    `bson:"issuingVerifierId" json:"issuingVerifierId"`
	ApprovalEventID   string    `bson:"approvalEventId" json:"approvalEventId"`
}

// YearCounter holds the last sequence number handed out for one calendar
// year. Created lazily on the first allocation of that year and only ever
// touched inside the counter repository's transaction.
type YearCounter struct {
	Year       int `bson:"year"`
	LastNumber int `bson:"lastNumber"`
}

// FormatCertificateID renders the canonical certificate id for a sequence
// number and year, e.g. TOURISM-0042-2025.
func FormatCertificateID(seq, year int) string {
	return fmt.Sprintf("TOURISM-%04d-%d", seq, year)
}

// EndOfYear returns December 31, 23:59:59 of t's calendar year. Certificates
// expire at year end regardless of when in the year they were issued.
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 23, 59, 59, 0, t.Location())
}
