package leave

import (
	"strings"

	"github.com/warp/leavedesk/calendar"
)

// IsSickLabel reports whether a free-text reason is labeled as sick leave
// ("sick", "Sick Leave", "sick - flu", ...).
func IsSickLabel(reason string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reason)), "sick")
}

// Classify decides whether a request is sick or planned.
//
// A request is sick only when it is sick-labeled AND its start date is within
// the policy window (today or tomorrow by default). Everything else, including
// sick-labeled backdated requests, is planned.
func Classify(p Policy, start calendar.Date, sickLabeled bool, today calendar.Date) Classification {
	if !sickLabeled {
		return ClassPlanned
	}
	diff := calendar.DaysBetween(today, start)
	if diff >= p.SickWindowMin && diff <= p.SickWindowMax {
		return ClassSick
	}
	return ClassPlanned
}
