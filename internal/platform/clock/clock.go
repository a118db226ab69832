package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today formats the clock's current day as a date-string.
func Today(c Clock) string {
	return c.Now().Format(time.DateOnly)
}
