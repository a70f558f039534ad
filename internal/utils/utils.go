package utils

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// VisibleText approximates what a browser reports as an element's text:
// runs of whitespace collapse to one space and the ends are trimmed.
func VisibleText(raw string) string {
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(raw, " "))
}

func DelayTime(backoff time.Duration) time.Duration {
	return backoff + time.Duration(rand.Intn(500))*time.Millisecond
}

func BackoffTime(backoff time.Duration, backoffFactor float64) time.Duration {
	return time.Duration(float64(backoff) * backoffFactor)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func StartTime() time.Time {
	return time.Now()
}

func TimeSince(startTime time.Time) string {
	return FormatDuration(time.Since(startTime))
}

func FormatDuration(duration time.Duration) string {
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
