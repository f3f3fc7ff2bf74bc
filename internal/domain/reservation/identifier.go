package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const maxDailySequence = 999

// IdentifierGenerator mints codes like EF250601007: prefix, YYMMDD of the
// creation day, and a 3-digit sequence within that day.
type IdentifierGenerator struct {
	prefix string
	loc    *time.Location
}

func NewIdentifierGenerator(prefix string, loc *time.Location) *IdentifierGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &IdentifierGenerator{prefix: prefix, loc: loc}
}

// DayPrefix is the code prefix shared by every booking created on t's day.
func (g *IdentifierGenerator) DayPrefix(t time.Time) string {
	return g.prefix + t.In(g.loc).Format("060102")
}

// Next returns the code after last within dayPrefix. An empty last starts
// the day at sequence 1.
func (g *IdentifierGenerator) Next(dayPrefix, last string) (string, error) {
	seq := 0
	if last != "" {
		n, err := ParseSequence(dayPrefix, last)
		if err != nil {
			return "", err
		}
		seq = n
	}
	seq++
	if seq > maxDailySequence {
		return "", ErrIdentifierExhausted
	}
	return FormatBookingCode(dayPrefix, seq), nil
}

func FormatBookingCode(dayPrefix string, seq int) string {
	return fmt.Sprintf("%s%03d", dayPrefix, seq)
}

// ParseSequence extracts the trailing sequence number of code.
func ParseSequence(dayPrefix, code string) (int, error) {
	if !strings.HasPrefix(code, dayPrefix) || len(code) != len(dayPrefix)+3 {
		return 0, fmt.Errorf("booking code %q does not belong to %q", code, dayPrefix)
	}
	n, err := strconv.Atoi(code[len(dayPrefix):])
	if err != nil {
		return 0, fmt.Errorf("booking code %q: %w", code, err)
	}
	return n, nil
}
