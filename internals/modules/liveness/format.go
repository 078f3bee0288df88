package liveness

import (
	"fmt"
	"strings"
	"time"
)

const stampLayout = "02.01 15:04"

const (
	lostHeadline     = "⚠ Світло вимкнули"
	restoredHeadline = "✅ Світло увімкнули"
)

// FormatDuration renders d at minute granularity: "N хв" below an hour,
// otherwise "H год" with a non-zero minute remainder appended.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d хв", minutes)
	}

	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return fmt.Sprintf("%d год", hours)
	}
	return fmt.Sprintf("%d год %d хв", hours, rest)
}

// FormatStamp renders t as day.month hour:minute in loc.
func FormatStamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(stampLayout)
}

// Message builds the operator text for tr.
func Message(tr Transition, loc *time.Location) string {
	var sb strings.Builder

	switch tr.Kind {
	case TransitionLost:
		sb.WriteString(lostHeadline)
		if tr.HasDuration {
			fmt.Fprintf(&sb, "\nБуло увімкнено: %s", FormatDuration(tr.Duration))
			fmt.Fprintf(&sb, "\nОстанній сигнал: %s", FormatStamp(tr.Reference, loc))
		}
	case TransitionRestored:
		sb.WriteString(restoredHeadline)
		if tr.HasDuration {
			fmt.Fprintf(&sb, "\nСвітла не було: %s", FormatDuration(tr.Duration))
			fmt.Fprintf(&sb, "\nВимкнули о: %s", FormatStamp(tr.Reference, loc))
		}
	}

	return sb.String()
}
