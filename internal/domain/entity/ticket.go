package entity

import (
	"time"
)

// Ticket Raw Status (as stored by the scheduling flow)
const (
	RawCreated    = "created"
	RawScanned    = "scanned"
	RawCanceled   = "canceled"
	RawReschedule = "reschedule"
	RawReassigned = "reassigned"
	RawRelocate   = "relocate"
	RawEmergency  = "emergency"
)

// Ticket Display Status (derived, never persisted)
const (
	LabelQueued         = "Queued"
	LabelOnTime         = "On Time"
	LabelEarly          = "Early"
	LabelOngoing        = "Ongoing"
	LabelDone           = "Done"
	LabelDelayed        = "Delayed"
	LabelScanned        = "Scanned"
	LabelInvalid        = "Invalid"
	LabelCanceled       = "Canceled"
	LabelScheduleChange = "Schedule Change"
	LabelReassigned     = "Reassigned"
	LabelRelocate       = "Relocate"
	LabelOnEmergency    = "On Emergency"
	LabelUnknown        = "Unknown"
)

// scanGrace is the window around the scheduled start/end used when deriving a
// label from wall-clock time alone.
const scanGrace = 15 * time.Minute

// ScanEvent is one check-in event recorded against a ticket.
type ScanEvent struct {
	EventStatus string    `bson:"eventStatus" json:"eventStatus"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Ticket is a scheduled tourist-activity slot. The display status is always
// recomputed from the schedule window and the scan log; it is never stored.
type Ticket struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	HolderName     string      `bson:"holderName,omitempty" json:"holderName,omitempty"`
	RawStatus      string      `bson:"rawStatus" json:"rawStatus"`
	ScheduledStart time.Time   `bson:"scheduledStart" json:"scheduledStart"`
	ScheduledEnd   time.Time   `bson:"scheduledEnd" json:"scheduledEnd"`
	ScanLog        []ScanEvent `bson:"scanLog" json:"scanLog"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// findScan returns the first scan-log entry with the given event status.
func (t *Ticket) findScan(eventStatus string) (ScanEvent, bool) {
	for _, e := range t.ScanLog {
		if e.EventStatus == eventStatus {
			return e, true
		}
	}
	return ScanEvent{}, false
}

// DisplayStatus computes the human-facing label for the ticket at the given
// instant. Pure: no branch mutates the ticket, and the same inputs always
// yield the same label, so it is safe to call concurrently per render.
func (t *Ticket) DisplayStatus(now time.Time) string {
	switch t.RawStatus {
	// Administrative overrides win regardless of timing.
	case RawCanceled:
		return LabelCanceled
	case RawReschedule:
		return LabelScheduleChange
	case RawReassigned:
		return LabelReassigned
	case RawRelocate:
		return LabelRelocate
	case RawEmergency:
		return LabelOnEmergency

	case RawCreated:
		if now.Before(t.ScheduledStart) {
			return LabelQueued
		}
		// A ticket left unscanned for over a month past its window is stale.
		if now.After(t.ScheduledEnd.AddDate(0, 1, 0)) {
			return LabelInvalid
		}
		return LabelQueued

	case RawScanned:
		scan, ok := t.findScan(RawScanned)
		if !ok {
			return LabelScanned
		}
		if scan.Timestamp.After(t.ScheduledEnd) {
			return LabelDone
		}
		return classifyScanOffset(scan.Timestamp.Sub(t.ScheduledStart))

	case "":
		return LabelUnknown

	default:
		// Raw statuses outside the override set fall back to the schedule
		// window. An empty scan log means the holder has not arrived yet.
		if len(t.ScanLog) == 0 {
			return LabelQueued
		}
		switch {
		case now.Before(t.ScheduledStart.Add(-scanGrace)):
			return LabelQueued
		case now.Before(t.ScheduledStart):
			return LabelOnTime
		case !now.After(t.ScheduledEnd):
			return LabelOngoing
		case !now.After(t.ScheduledEnd.Add(scanGrace)):
			return LabelDone
		default:
			return LabelDelayed
		}
	}
}

// classifyScanOffset buckets the scan-to-start offset. The offset ranges
// [-15m,-5m) and below -30m intentionally fall through to the plain Scanned
// label; the upstream product has not defined labels for those gaps.
func classifyScanOffset(offset time.Duration) string {
	d := offset.Minutes()
	switch {
	case d >= 15 && d <= 30:
		return LabelOngoing
	case d > 30:
		return LabelDelayed
	case d >= -5 && d < 15:
		return LabelOnTime
	case d >= -30 && d < -15:
		return LabelEarly
	default:
		return LabelScanned
	}
}
