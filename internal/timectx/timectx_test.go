package timectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeOfDayBuckets(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "night"},
		{4, "night"},
		{5, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{17, "afternoon"},
		{18, "evening"},
		{21, "evening"},
		{22, "night"},
		{23, "night"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, TimeOfDay(c.hour), "hour %d", c.hour)
	}
}

func TestAtFormats(t *testing.T) {
	now := time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)
	ctx := At(now)

	assert.Equal(t, "09:05", ctx.CurrentTime)
	assert.Equal(t, "Thursday, March 07, 2024", ctx.CurrentDate)
	assert.Equal(t, "morning", ctx.TimeOfDay)
	assert.Equal(t, "2024-03-07T09:05:00Z", ctx.Timestamp)
}

func TestRecency(t *testing.T) {
	now := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		last time.Time
		want string
	}{
		{"missing", time.Time{}, "First conversation"},
		{"just now", now.Add(-30 * time.Second), "Just now"},
		{"ninety seconds", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-45 * time.Minute), "45 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"yesterday", now.Add(-30 * time.Hour), "Yesterday"},
		{"days", now.Add(-72 * time.Hour), "3 days ago"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Recency(now, c.last))
		})
	}
}
