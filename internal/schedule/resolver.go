package schedule

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"curbside/internal/sentinel"
)

// Calendar layouts the feed has been observed to use once the weekday token
// is stripped.
var feedLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"1/2/2006",
	"2006-01-02",
}

// ParseFeedDate parses a raw feed date string. The feed usually prefixes
// dates with an all-caps weekday ("THURSDAY JANUARY 2, 2026"), but not
// always. The string is tried as-is first — time.Parse matches month names
// case-insensitively, so "JANUARY 2, 2026" parses directly — and only when
// that fails is one leading uppercase token stripped and the remainder
// retried. Returns a wrapped sentinel.ErrUnparsable when no layout matches,
// so every caller has to decide what an unknown date means for its own
// output.
func ParseFeedDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date string: %w", sentinel.ErrUnparsable)
	}
	candidates := []string{trimmed}
	if stripped := stripLeadingWeekday(trimmed); stripped != trimmed {
		candidates = append(candidates, stripped)
	}
	for _, candidate := range candidates {
		for _, layout := range feedLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", raw, sentinel.ErrUnparsable)
}

// stripLeadingWeekday removes one leading all-uppercase token and the
// whitespace after it. Only consulted after the full string failed to parse,
// so an all-caps month is never mistaken for a weekday.
func stripLeadingWeekday(s string) string {
	i := 0
	for i < len(s) && unicode.IsUpper(rune(s[i])) {
		i++
	}
	if i == 0 || i >= len(s) || !unicode.IsSpace(rune(s[i])) {
		return s
	}
	return strings.TrimSpace(s[i:])
}

// EffectiveRawDate picks the date string actually in force for a service:
// the alternate (holiday) date when non-blank, else the primary date.
func EffectiveRawDate(p *Pickup) string {
	if alt := strings.TrimSpace(p.AltDate); alt != "" {
		return alt
	}
	return p.Date
}

// ServiceResolution is the resolved outcome for one service.
type ServiceResolution struct {
	Service Service
	Date    time.Time
	Known   bool // the effective date parsed successfully
	Matches bool // the effective date falls on the target day
}

// Resolution is the outcome of resolving a payload against a target day. The
// two-tier distinction matters: Determined=false means the feed has no
// confident schedule for the address, which reads differently to the user
// than a determined schedule that simply has no pickup on the target day.
type Resolution struct {
	Determined bool
	Services   []ServiceResolution
}

// Matching returns the services whose effective date falls on the target day,
// in fixed order.
func (r Resolution) Matching() []Service {
	var matched []Service
	for _, sr := range r.Services {
		if sr.Matches {
			matched = append(matched, sr.Service)
		}
	}
	return matched
}

// Resolver interprets raw feed payloads into per-service effective dates.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve computes, for each service present in the payload, the effective
// date and whether it falls on the target civil day. A date that fails to
// parse is logged and recorded as unknown; resolution continues for the other
// service. Target is compared date-only in its own location.
func (r *Resolver) Resolve(payload *Payload, target time.Time) Resolution {
	res := Resolution{Determined: payload.Determined()}
	for _, svc := range ServiceOrder {
		pickup := payload.Pickup(svc)
		if pickup == nil {
			continue
		}
		sr := ServiceResolution{Service: svc}
		raw := EffectiveRawDate(pickup)
		date, err := ParseFeedDate(raw)
		if err != nil {
			r.logger.Warn("could not parse feed date",
				"service", string(svc),
				"raw", raw,
				"error", err,
			)
			res.Services = append(res.Services, sr)
			continue
		}
		sr.Date = date
		sr.Known = true
		sr.Matches = sameCivilDay(date, target)
		res.Services = append(res.Services, sr)
	}
	return res
}

// sameCivilDay compares calendar days ignoring time-of-day, each time in its
// own location.
func sameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
