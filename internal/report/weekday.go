package report

import "time"

// greekWeekdays is indexed by time.Weekday (Sunday first).
var greekWeekdays = [7]string{
	"Κυριακή",
	"Δευτέρα",
	"Τρίτη",
	"Τετάρτη",
	"Πέμπτη",
	"Παρασκευή",
	"Σάββατο",
}

// greekWeekday returns the Greek weekday name for an ISO date string.
// Unparsable dates yield an empty name.
func greekWeekday(date string) string {
	t, err := time.Parse(dateKey, date)
	if err != nil {
		return ""
	}
	return greekWeekdays[t.Weekday()]
}
