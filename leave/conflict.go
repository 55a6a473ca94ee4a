package leave

import "github.com/warp/leavedesk/calendar"

// FindOverlap returns the first active request in existing whose range shares
// at least one day with [start, end], or nil.
//
// Rejected and cancelled requests never block. excludeID skips the request
// being edited so it cannot collide with itself.
func FindOverlap(start, end calendar.Date, existing []Request, excludeID string) *Request {
	for i := range existing {
		e := &existing[i]
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if !e.Status.Active() {
			continue
		}
		if calendar.Overlaps(start, end, e.Start, e.End) {
			found := *e
			return &found
		}
	}
	return nil
}

// CheckOverlap is FindOverlap returning a *ConflictError.
func CheckOverlap(start, end calendar.Date, existing []Request, excludeID string) error {
	if e := FindOverlap(start, end, existing, excludeID); e != nil {
		return &ConflictError{Existing: *e}
	}
	return nil
}
