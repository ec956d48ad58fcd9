// Package timectx derives the temporal context woven into system prompts:
// clock time, date, a part-of-day bucket, and a human recency phrase for
// the previous conversation.
package timectx

import (
	"fmt"
	"time"
)

type Context struct {
	CurrentTime string // "HH:MM"
	CurrentDate string // "Monday, January 02, 2006"
	TimeOfDay   string // morning, afternoon, evening, night
	Timestamp   string // RFC3339
}

// FirstConversation is returned by Recency when no prior session exists.
const FirstConversation = "First conversation"

// At computes the time context for an explicit instant.
func At(now time.Time) Context {
	return Context{
		CurrentTime: now.Format("15:04"),
		CurrentDate: now.Format("Monday, January 02, 2006"),
		TimeOfDay:   TimeOfDay(now.Hour()),
		Timestamp:   now.Format(time.RFC3339),
	}
}

// Now computes the time context in the given location. A nil location
// falls back to the local zone.
func Now(loc *time.Location) Context {
	if loc == nil {
		loc = time.Local
	}
	return At(time.Now().In(loc))
}

// TimeOfDay buckets an hour of day.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

// Recency renders how long ago the previous session was touched. A zero
// lastModified means there is no prior session.
func Recency(now, lastModified time.Time) string {
	if lastModified.IsZero() {
		return FirstConversation
	}

	diff := now.Sub(lastModified)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, plural("minute", minutes))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural("hour", hours))
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
