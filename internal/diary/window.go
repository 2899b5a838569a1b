package diary

import "github.com/google/uuid"

// ModifyDateRange resizes the window to [newFrom, newTo] and reconciles the
// day pages. Growing a side creates empty pages; shrinking a side is refused
// outright if any page being dropped holds a record in any category, so no
// record is ever silently discarded. On failure the diary is unchanged.
func (d *Diary) ModifyDateRange(requesterID uuid.UUID, newFrom, newTo string) error {
	if err := d.AuthorizeOwner(requesterID); err != nil {
		return err
	}
	from, err := NormalizeDate(newFrom)
	if err != nil {
		return err
	}
	to, err := NormalizeDate(newTo)
	if err != nil {
		return err
	}
	if from > to {
		return badRequest("date_from is after date_to")
	}

	if from > d.DateFrom {
		if day, ok := d.recordInSpan(d.DateFrom, prevDay(from)); ok {
			return forbidden("cannot shrink: day %s still has records", day)
		}
	}
	if to < d.DateTo {
		if day, ok := d.recordInSpan(nextDay(to), d.DateTo); ok {
			return forbidden("cannot shrink: day %s still has records", day)
		}
	}

	// Rebuild the page list over the new span, reusing surviving pages.
	// Dropped pages were proven empty above.
	pages := make([]DayPage, 0, len(d.Days))
	for _, day := range daySpan(from, to) {
		if p := d.Page(day); p != nil {
			pages = append(pages, *p)
		} else {
			pages = append(pages, newDayPage(day))
		}
	}
	d.Days = pages
	d.DateFrom = from
	d.DateTo = to
	return nil
}

// recordInSpan reports the first day in [from, to] bearing any record.
func (d *Diary) recordInSpan(from, to string) (string, bool) {
	for _, p := range d.Days {
		if p.Date >= from && p.Date <= to && !p.Empty() {
			return p.Date, true
		}
	}
	return "", false
}
