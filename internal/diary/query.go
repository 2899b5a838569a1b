package diary

import "github.com/google/uuid"

// DayRecords returns the page for date after a read-access check. A date
// outside the window is a bad request, not an empty page.
func (d *Diary) DayRecords(requesterID uuid.UUID, date string) (*DayPage, error) {
	if err := d.AuthorizeRead(requesterID); err != nil {
		return nil, err
	}
	day, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	if day < d.DateFrom || day > d.DateTo {
		return nil, badRequest("date %s is outside the diary window %s..%s", day, d.DateFrom, d.DateTo)
	}
	page := d.Page(day)
	if page == nil {
		return nil, invariant("no page for in-window date %s", day)
	}
	return page, nil
}

// FirstLastDayWithRecord scans for the first and last day bearing at least
// one record in any category. ok is false when the whole diary is blank.
// Exporters use this to trim leading and trailing empty pages.
func (d *Diary) FirstLastDayWithRecord() (first, last string, ok bool) {
	for i := range d.Days {
		if !d.Days[i].Empty() {
			if !ok {
				first = d.Days[i].Date
				ok = true
			}
			last = d.Days[i].Date
		}
	}
	return first, last, ok
}
