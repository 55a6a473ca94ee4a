// Package seed loads the organization's fixed-date holiday calendar from YAML
// and writes it into a leave.HolidayStore.
//
// Holiday ids are name-based UUIDs of "YYYY-MM-DD/name", so seeding the same
// year twice produces the same rows.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/warp/leavedesk/calendar"
	"github.com/warp/leavedesk/leave"
)

//go:embed holidays.yaml
var defaultCalendar []byte

// Namespace is the UUID namespace of seeded holiday ids.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://leavedesk.local/holidays"))

// Entry is one recurring holiday.
type Entry struct {
	Month int               `yaml:"month"`
	Day   int               `yaml:"day"`
	Name  string            `yaml:"name"`
	Kind  leave.HolidayKind `yaml:"kind"`
}

// Calendar is the parsed seed file.
type Calendar struct {
	Holidays []Entry `yaml:"holidays"`
}

// Load parses and validates a calendar.
func Load(r io.Reader) (*Calendar, error) {
	var c Calendar
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse holiday calendar: %w", err)
	}

	for i := range c.Holidays {
		e := &c.Holidays[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Kind == "" {
			e.Kind = leave.HolidayPublic
		}
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("holiday %d: name is required", i+1)
		case e.Month < 1 || e.Month > 12:
			return nil, fmt.Errorf("holiday %q: month %d out of range", e.Name, e.Month)
		case e.Day < 1 || e.Day > 31:
			return nil, fmt.Errorf("holiday %q: day %d out of range", e.Name, e.Day)
		case !e.Kind.Valid():
			return nil, fmt.Errorf("holiday %q: unknown kind %q", e.Name, e.Kind)
		}
	}
	return &c, nil
}

// Default returns the embedded calendar.
func Default() (*Calendar, error) {
	return Load(bytes.NewReader(defaultCalendar))
}

// LoadFile loads path, or the embedded calendar when path is empty.
func LoadFile(path string) (*Calendar, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// HolidayID is the deterministic id of a holiday.
func HolidayID(date calendar.Date, name string) string {
	return uuid.NewSHA1(Namespace, []byte(date.String()+"/"+name)).String()
}

// ForYear expands the calendar to concrete holidays in year, ordered as in
// the file. Entries that do not exist in year (Feb 29) are skipped.
func (c *Calendar) ForYear(year int) []leave.PublicHoliday {
	out := make([]leave.PublicHoliday, 0, len(c.Holidays))
	for _, e := range c.Holidays {
		d := calendar.NewDate(year, time.Month(e.Month), e.Day)
		if int(d.Month()) != e.Month || d.Day() != e.Day {
			continue
		}
		out = append(out, leave.PublicHoliday{
			ID:   HolidayID(d, e.Name),
			Name: e.Name,
			Date: d,
			Kind: e.Kind,
		})
	}
	return out
}

// Apply writes the holidays of each year that are not in the store yet and
// returns how many were added. Holidays edited by management are kept and
// holidays deleted by management stay deleted.
func Apply(ctx context.Context, st leave.HolidayStore, c *Calendar, years ...int) (int, error) {
	added := 0
	for _, year := range years {
		for _, h := range c.ForYear(year) {
			existing, err := st.GetHoliday(ctx, h.ID)
			if err != nil {
				return added, fmt.Errorf("failed to load holiday: %w", err)
			}
			if existing != nil {
				continue
			}
			deleted, err := st.HolidayDeleted(ctx, h.ID)
			if err != nil {
				return added, fmt.Errorf("failed to load holiday: %w", err)
			}
			if deleted {
				continue
			}
			if err := st.SaveHoliday(ctx, h); err != nil {
				return added, fmt.Errorf("failed to seed holiday %s: %w", h.Name, err)
			}
			added++
		}
	}
	return added, nil
}
