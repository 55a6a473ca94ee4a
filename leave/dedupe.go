package leave

import (
	"sort"

	"github.com/warp/leavedesk/calendar"
)

// Resolution is the display projection of a set of requests: at most one
// authoritative request per calendar day.
type Resolution struct {
	// Requests that claimed at least one day, in input order.
	Requests []Request
	// Claims maps each covered day to the id of the request that owns it.
	Claims map[calendar.Date]string
}

// Resolve collapses overlapping records so each calendar day is claimed by
// exactly one request.
//
// Requests are ranked approved > pending > rejected > cancelled, ties broken
// by most recent CreatedAt (then by id for determinism). Walking that order,
// each request claims the days not yet claimed; a request that claims nothing
// is dropped from the display set. Stored data is never touched.
//
// Resolve assumes requests belong to one user. Use ResolveByUser for a team.
func Resolve(requests []Request) Resolution {
	order := make([]int, len(requests))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := requests[order[a]], requests[order[b]]
		if pa, pb := ra.Status.priority(), rb.Status.priority(); pa != pb {
			return pa > pb
		}
		if !ra.CreatedAt.Equal(rb.CreatedAt) {
			return ra.CreatedAt.After(rb.CreatedAt)
		}
		return ra.ID < rb.ID
	})

	claims := make(map[calendar.Date]string)
	kept := make([]bool, len(requests))
	for _, idx := range order {
		r := requests[idx]
		for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
			if _, taken := claims[d]; taken {
				continue
			}
			claims[d] = r.ID
			kept[idx] = true
		}
	}

	out := make([]Request, 0, len(requests))
	for i, r := range requests {
		if kept[i] {
			out = append(out, r)
		}
	}
	return Resolution{Requests: out, Claims: claims}
}

// ResolveByUser runs Resolve independently per user and concatenates the
// results ordered by start date, then user.
func ResolveByUser(requests []Request) []Request {
	byUser := make(map[string][]Request)
	for _, r := range requests {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	var out []Request
	for _, rs := range byUser {
		out = append(out, Resolve(rs).Requests...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ID < out[j].ID
	})
	return out
}
