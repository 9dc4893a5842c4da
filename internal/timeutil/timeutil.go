package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FormatType selects one of the named display patterns.
type FormatType string

const (
	FormatDateTime      FormatType = "DATETIME"
	FormatDate          FormatType = "DATE"
	FormatTime          FormatType = "TIME"
	FormatShortDateTime FormatType = "SHORT_DATETIME"
	FormatMonthDay      FormatType = "MONTH_DAY"
	FormatRelative      FormatType = "relative"
)

var formatPatterns = map[FormatType]string{
	FormatDateTime:      "2006-01-02 15:04:05",
	FormatDate:          "2006-01-02",
	FormatTime:          "15:04:05",
	FormatShortDateTime: "01-02 15:04",
	FormatMonthDay:      "01-02",
}

// instantLayouts are the accepted input layouts for ParseInstant. Layouts
// without an explicit zone are interpreted as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseInstant parses a timestamp string into a time.Time. It accepts
// ISO-8601 with or without zone/fraction plus bare dates; inputs without a
// zone are taken as UTC.
func ParseInstant(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Formatter converts between UTC instants and a fixed display zone. The zone
// is Asia/Shanghai (+08:00, no DST) unless overridden; Now is injectable so
// tests control the clock.
type Formatter struct {
	Location *time.Location
	Now      func() time.Time
}

// NewFormatter returns a Formatter targeting Asia/Shanghai with the system
// clock. A fixed offset is used so formatting does not depend on host tzdata.
func NewFormatter() *Formatter {
	return &Formatter{
		Location: time.FixedZone("Asia/Shanghai", 8*60*60),
		Now:      time.Now,
	}
}

// ToLocal formats a UTC timestamp string in the target zone. It fails soft:
// null-ish or unparseable input yields "--" because this output feeds display
// surfaces, never queries.
func (f *Formatter) ToLocal(utc string, format FormatType) string {
	if strings.TrimSpace(utc) == "" {
		return "--"
	}
	t, ok := ParseInstant(utc)
	if !ok {
		return "--"
	}
	if format == FormatRelative {
		return f.relative(t)
	}
	pattern, ok := formatPatterns[format]
	if !ok {
		pattern = formatPatterns[FormatDateTime]
	}
	return t.In(f.Location).Format(pattern)
}

// ToSearchUTC interprets a wall-clock string in the target zone and returns
// the equivalent UTC instant as an ISO string. A bare date expands to the
// start or end of that day. Unlike ToLocal this throws on bad input: the
// result feeds server queries, where a silent fallback would corrupt search
// semantics.
func (f *Formatter) ToSearchUTC(local string, endOfDay bool) (string, error) {
	s := strings.TrimSpace(local)
	if dateOnlyPattern.MatchString(s) {
		if endOfDay {
			s += " 23:59:59"
		} else {
			s += " 00:00:00"
		}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, f.Location)
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s", local)
	}
	return t.UTC().Format(time.RFC3339), nil
}

// TimeRange is a UTC search window built from local calendar dates.
type TimeRange struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CreateSearchTimeRange builds a search window spanning the start of
// startDate through the end of endDate, both in the target zone.
func (f *Formatter) CreateSearchTimeRange(startDate, endDate string) (TimeRange, error) {
	start, err := f.ToSearchUTC(startDate, false)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := f.ToSearchUTC(endDate, true)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{StartTime: start, EndTime: end}, nil
}

// DescribeSearchRange renders a UTC window as a friendly local date range.
func (f *Formatter) DescribeSearchRange(startUTC, endUTC string) string {
	start := f.ToLocal(startUTC, FormatDate)
	end := f.ToLocal(endUTC, FormatDate)
	if start == end {
		return start
	}
	return start + " to " + end
}

// IsValidTimeString reports whether the string parses to a valid instant.
func (f *Formatter) IsValidTimeString(value string) bool {
	_, ok := ParseInstant(value)
	return ok
}

// NowUTC returns the current UTC instant as an ISO string.
func (f *Formatter) NowUTC() string {
	return f.Now().UTC().Format(time.RFC3339)
}

// NowLocal returns the current time formatted in the target zone.
func (f *Formatter) NowLocal(format FormatType) string {
	return f.ToLocal(f.NowUTC(), format)
}

func (f *Formatter) relative(t time.Time) string {
	d := f.Now().Sub(t)
	future := d < 0
	if future {
		d = -d
	}
	var phrase string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		phrase = plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		phrase = plural(int(d.Hours()), "hour")
	default:
		phrase = plural(int(d.Hours()/24), "day")
	}
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
