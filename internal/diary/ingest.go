package diary

import (
	"time"

	"github.com/google/uuid"
)

// AddRecord files one record on today's page under category. When today lies
// past the window it widens the window forward first, creating every
// intervening page so the day pages stay contiguous. Records never land on a
// past day; there is no backfill path.
//
// Author name is the denormalized display name of the requester; the role is
// derived here and copied onto the record.
func (d *Diary) AddRecord(requesterID uuid.UUID, authorName string, category Category, content, picturePath string, now time.Time) (*Record, error) {
	role, err := d.EffectiveRole(requesterID)
	if err != nil {
		return nil, err
	}

	today := Today(now)
	if today < d.DateFrom {
		return nil, badRequest("today (%s) precedes the diary start %s", today, d.DateFrom)
	}
	if today > d.DateTo {
		for _, day := range daySpan(nextDay(d.DateTo), today) {
			d.Days = append(d.Days, newDayPage(day))
		}
		d.DateTo = today
	}

	page := d.Page(today)
	if page == nil {
		return nil, invariant("no page for today %s after extending to %s", today, d.DateTo)
	}

	rec := Record{
		ID:          uuid.New(),
		Content:     content,
		PicturePath: picturePath,
		AuthorName:  authorName,
		AuthorRole:  role,
		CreatedAt:   now,
	}
	// An unrecognized category constructs the record but does not file it;
	// callers reject CategoryNone upstream.
	if category.Valid() {
		page.Lists[category] = append(page.Lists[category], rec)
	}
	return &rec, nil
}
