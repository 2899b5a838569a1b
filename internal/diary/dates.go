package diary

import "time"

// DateLayout is the canonical date-only form. ISO dates compare
// lexicographically, so window bounds are ordered with plain string
// comparison throughout.
const DateLayout = "2006-01-02"

// NormalizeDate validates s and returns it in canonical form.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", badRequest("invalid date %q", s)
	}
	return t.Format(DateLayout), nil
}

// Today is now's calendar date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func nextDay(date string) string {
	t, _ := time.Parse(DateLayout, date)
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

func prevDay(date string) string {
	t, _ := time.Parse(DateLayout, date)
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// daySpan lists every date in [from, to] inclusive. Empty when from > to.
func daySpan(from, to string) []string {
	var days []string
	for d := from; d <= to; d = nextDay(d) {
		days = append(days, d)
	}
	return days
}
