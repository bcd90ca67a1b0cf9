package entity

import "errors"

// Sentinel errors surfaced by the lifecycle engine. Callers match them with
// errors.Is after any amount of wrapping.
var (
	// ErrApplicationNotFound means the referenced application id does not
	// resolve; nothing was written.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrTicketNotFound means the referenced ticket id does not resolve.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInvalidStatus means the requested status is outside the fixed
	// lifecycle set; nothing was written.
	ErrInvalidStatus = errors.New("status not in allowed set")

	// ErrAllocationConflict means the counter transaction kept colliding with
	// concurrent allocations and the store's retry budget ran out.
	ErrAllocationConflict = errors.New("certificate number allocation conflict")

	// ErrCertificateLinkMissing marks an approved application whose minted
	// certificate is not referenced back from the application document. The
	// reconciler repairs these.
	ErrCertificateLinkMissing = errors.New("certificate issued but not linked to application")
)
