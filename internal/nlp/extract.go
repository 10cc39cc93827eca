// Package nlp turns quick-add text such as "Call mom tomorrow !high" into a
// title, an optional due date and a priority. Extraction never fails: text
// without markers comes back as a medium-priority title with no due date.
package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

type Parsed struct {
	Title    string
	DueAt    *time.Time
	Priority model.Priority
}

type priorityMarker struct {
	priority model.Priority
	pattern  *regexp.Regexp
}

// Checked in precedence order; markers are case-sensitive literals.
var priorityMarkers = []priorityMarker{
	{model.PriorityUrgent, regexp.MustCompile(`!urgent|!!`)},
	{model.PriorityHigh, regexp.MustCompile(`!high|!h`)},
	{model.PriorityLow, regexp.MustCompile(`!low|!l`)},
}

var (
	relativeDayPattern = regexp.MustCompile(`(?i)\b(today|tomorrow|next week)\b`)
	weekdayPattern     = regexp.MustCompile(`(?i)\b(next )?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	inDaysPattern      = regexp.MustCompile(`(?i)\bin (\d+) days?\b`)
	whitespace         = regexp.MustCompile(`\s+`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ExtractNow is Extract against the wall clock.
func ExtractNow(input string) Parsed {
	return Extract(input, time.Now())
}

// Extract parses input relative to now. Due dates are local midnight in
// now's location.
func Extract(input string, now time.Time) Parsed {
	out := Parsed{Title: input, Priority: model.PriorityMedium}

	for _, m := range priorityMarkers {
		if m.pattern.MatchString(input) {
			out.Priority = m.priority
			out.Title = m.pattern.ReplaceAllString(out.Title, "")
			break
		}
	}

	title, due := extractDate(out.Title, now)
	out.Title = whitespace.ReplaceAllString(strings.TrimSpace(title), " ")
	out.DueAt = due
	return out
}

// ParseDate resolves a bare date phrase such as "friday" or "in 3 days".
// ok is false when the phrase has no recognised date.
func ParseDate(phrase string, now time.Time) (time.Time, bool) {
	_, due := extractDate(phrase, now)
	if due == nil {
		return time.Time{}, false
	}
	return *due, true
}

// extractDate applies the date patterns in order and stops at the first
// match, removing the matched phrase from text.
func extractDate(text string, now time.Time) (string, *time.Time) {
	if loc := relativeDayPattern.FindStringSubmatchIndex(text); loc != nil {
		var days int
		switch strings.ToLower(text[loc[2]:loc[3]]) {
		case "tomorrow":
			days = 1
		case "next week":
			days = 7
		}
		return cut(text, loc), dueIn(now, days)
	}
	if loc := weekdayPattern.FindStringSubmatchIndex(text); loc != nil {
		target := weekdays[strings.ToLower(text[loc[4]:loc[5]])]
		days := int(target) - int(now.Weekday())
		if days <= 0 {
			days += 7
		}
		if loc[2] >= 0 {
			days += 7
		}
		return cut(text, loc), dueIn(now, days)
	}
	if loc := inDaysPattern.FindStringSubmatchIndex(text); loc != nil {
		if days, err := strconv.Atoi(text[loc[2]:loc[3]]); err == nil {
			return cut(text, loc), dueIn(now, days)
		}
	}
	return text, nil
}

func cut(text string, loc []int) string {
	return text[:loc[0]] + " " + text[loc[1]:]
}

func dueIn(now time.Time, days int) *time.Time {
	due := clock.AddDays(now, days)
	return &due
}
