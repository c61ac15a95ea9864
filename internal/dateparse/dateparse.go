// Package dateparse turns natural-language deadline expressions into
// YYYY-MM-DD dates.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seanmcc/taskbucket/internal/model"
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var (
	inDaysRe   = regexp.MustCompile(`^in (\d+) days?$`)
	inWeeksRe  = regexp.MustCompile(`^in (\d+) weeks?$`)
	inMonthsRe = regexp.MustCompile(`^in (\d+) months?$`)
	nDaysRe    = regexp.MustCompile(`^(\d+) days?( from now)?$`)
	nWeeksRe   = regexp.MustCompile(`^(\d+) weeks?( from now)?$`)
	weekdayRe  = regexp.MustCompile(`^(next )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// Parse converts a date expression to YYYY-MM-DD relative to now.
//
// Accepted inputs: an ISO date (2026-01-08), "today", "tomorrow", a weekday
// name (optionally prefixed with "next"), "in N days/weeks/months",
// "N days [from now]", "N weeks [from now]", "next week", "next month".
func Parse(input string, now time.Time) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	s = spacesRe.ReplaceAllString(s, " ")

	if parsed, err := time.Parse(model.DateLayout, s); err == nil {
		return parsed.Format(model.DateLayout), nil
	}

	switch s {
	case "today":
		return now.Format(model.DateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(model.DateLayout), nil
	case "next week":
		return now.AddDate(0, 0, 7).Format(model.DateLayout), nil
	case "next month":
		return now.AddDate(0, 0, 30).Format(model.DateLayout), nil
	}

	if m := weekdayRe.FindStringSubmatch(s); m != nil {
		return nextWeekday(now, weekdays[m[2]]).Format(model.DateLayout), nil
	}
	if m := inDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, n).Format(model.DateLayout), nil
	}
	if m := inWeeksRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, 7*n).Format(model.DateLayout), nil
	}
	if m := inMonthsRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, 30*n).Format(model.DateLayout), nil
	}
	if m := nDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, n).Format(model.DateLayout), nil
	}
	if m := nWeeksRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, 7*n).Format(model.DateLayout), nil
	}

	return "", fmt.Errorf("could not parse date %q: use YYYY-MM-DD or natural language like 'tomorrow', 'next friday', 'in 3 days'", input)
}

// nextWeekday returns the next occurrence of target after now. When today
// is the target weekday, the occurrence one week out is returned.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	ahead := (int(target) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}
