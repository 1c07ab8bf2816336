package leaderboarddomain

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var windowParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseWindowBoundary parses an RFC3339 timestamp, a 2006-01-02 date or a
// natural-language expression such as "next monday" relative to now.
func ParseWindowBoundary(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidWindow)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}

	r, err := windowParser.Parse(strings.ToLower(s), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: could not recognize %q", ErrInvalidWindow, input)
	}
	return r.Time.UTC(), nil
}
