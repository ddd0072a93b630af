// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/configs"
)

// Nama locals, diisi middleware auth kalau token membawa claim timezone
const (
	LocSchoolTimezone = "school_timezone" // string, misal "Asia/Makassar"
	LocSchoolLoc      = "school_loc"      // *time.Location
)

var (
	defaultOnce sync.Once
	defaultLoc  *time.Location
)

// DefaultLocation: APP_TIMEZONE → Asia/Jakarta → UTC
func DefaultLocation() *time.Location {
	defaultOnce.Do(func() {
		for _, name := range []string{strings.TrimSpace(configs.AppTimezone), "Asia/Jakarta"} {
			if name == "" {
				continue
			}
			if loc, err := time.LoadLocation(name); err == nil {
				defaultLoc = loc
				return
			}
		}
		defaultLoc = time.UTC
	})
	return defaultLoc
}

// GetSchoolLocation: locals "school_loc" → "school_timezone" → DefaultLocation
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return DefaultLocation()
	}
	if loc, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	if s, ok := c.Locals(LocSchoolTimezone).(string); ok && strings.TrimSpace(s) != "" {
		if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
			c.Locals(LocSchoolLoc, loc)
			return loc
		}
	}
	return DefaultLocation()
}

// ToSchoolTime: zero time dikembalikan apa adanya
func ToSchoolTime(c *fiber.Ctx, t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(GetSchoolLocation(c))
}

func ToSchoolTimePtr(c *fiber.Ctx, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToSchoolTime(c, *t)
	return &v
}
