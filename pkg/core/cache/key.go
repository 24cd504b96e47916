package cache

import (
	"strings"
	"time"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

const dayLayout = "2006-01-02"

// Key identifies one cached document: a label and a calendar day.
type Key struct {
	Label string
	Day   time.Time
}

// NewKey builds a key for the calendar date of day, taken in day's own
// location and stored as midnight UTC.
func NewKey(label string, day time.Time) Key {
	y, m, d := day.Date()
	return Key{Label: label, Day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns "label_YYYY-MM-DD".
func (k Key) String() string {
	return k.Label + "_" + k.DayString()
}

// DayString returns the day as YYYY-MM-DD.
func (k Key) DayString() string {
	return k.Day.Format(dayLayout)
}

// ParseKey reverses Key.String. The label may itself contain underscores.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndex(s, "_")
	if i <= 0 {
		return Key{}, mdwerror.Newf("invalid cache key %q", s).WithCode(mdwerror.CodeInvalidInput)
	}
	day, err := time.Parse(dayLayout, s[i+1:])
	if err != nil {
		return Key{}, mdwerror.Wrapf(err, "invalid cache key %q", s).WithCode(mdwerror.CodeInvalidInput)
	}
	return Key{Label: s[:i], Day: day}, nil
}

func (k Key) validate() error {
	if k.Label == "" {
		return mdwerror.New("cache key has no label").WithCode(mdwerror.CodeInvalidInput)
	}
	if strings.ContainsAny(k.Label, `/\`) || strings.Contains(k.Label, "..") {
		return mdwerror.Newf("cache label %q contains path characters", k.Label).
			WithCode(mdwerror.CodeInvalidInput)
	}
	if k.Day.IsZero() {
		return mdwerror.Newf("cache key %q has no day", k.Label).WithCode(mdwerror.CodeInvalidInput)
	}
	return nil
}

// dayBefore reports whether k's day lies before the calendar date of t.
func (k Key) dayBefore(t time.Time) bool {
	return k.DayString() < NewKey(k.Label, t).DayString()
}
