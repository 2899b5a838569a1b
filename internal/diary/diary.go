// Package diary holds the construction-diary aggregate and the rules that
// govern it: who may contribute under which role, how the date window is
// resized, and how categorized records land on a day page. Persistence is the
// service layer's job; everything here works on the in-memory aggregate.
package diary

import (
	"time"

	"github.com/google/uuid"
)

// Role is one of the statutory diary contributor roles.
type Role string

const (
	RoleNone                   Role = "none"
	RoleConstructionManager    Role = "construction_manager"
	RoleConstructionSupervisor Role = "construction_supervisor"
	RoleSurveyor               Role = "surveyor"
	RoleOwnerRepresentative    Role = "owner_representative"
	RoleDesigner               Role = "designer"
	RoleSupplier               Role = "supplier"
	RoleControlInspector       Role = "control_inspector"
	RoleGovernmentalControl    Role = "governmental_control"
	RoleSafetyCoordinator      Role = "safety_coordinator"
)

var roles = map[Role]bool{
	RoleConstructionManager:    true,
	RoleConstructionSupervisor: true,
	RoleSurveyor:               true,
	RoleOwnerRepresentative:    true,
	RoleDesigner:               true,
	RoleSupplier:               true,
	RoleControlInspector:       true,
	RoleGovernmentalControl:    true,
	RoleSafetyCoordinator:      true,
}

// Valid reports whether r is an assignable contributor role. RoleNone is a
// sentinel and never assignable.
func (r Role) Valid() bool { return roles[r] }

// Category names one of the record lists on a day page.
type Category string

const (
	CategoryWeather  Category = "weather"
	CategoryWorkers  Category = "workers"
	CategoryMachines Category = "machines"
	CategoryWork     Category = "work"
	CategoryOther    Category = "other"
	CategoryNone     Category = "none"
)

// Categories is the fixed page order of the record lists.
var Categories = []Category{
	CategoryWeather,
	CategoryWorkers,
	CategoryMachines,
	CategoryWork,
	CategoryOther,
}

// Valid reports whether c names a real record list.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Record is a single diary entry. Content and PicturePath are mutually
// exclusive. Author name and role are copied at write time so later role
// changes never rewrite history. Records are immutable once filed.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Content     string    `json:"content,omitempty"`
	PicturePath string    `json:"picture_path,omitempty"`
	AuthorName  string    `json:"author_name"`
	AuthorRole  Role      `json:"author_role"`
	CreatedAt   time.Time `json:"created_at"`
}

// DayPage holds one calendar day's records, one list per category.
type DayPage struct {
	Date  string                `json:"date"`
	Lists map[Category][]Record `json:"lists"`
}

func newDayPage(date string) DayPage {
	return DayPage{Date: date, Lists: map[Category][]Record{}}
}

// Empty reports whether the page has no record in any category.
func (p DayPage) Empty() bool {
	for _, c := range Categories {
		if len(p.Lists[c]) > 0 {
			return false
		}
	}
	return true
}

// Contributor grants a user read/write access under a fixed role.
type Contributor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// Diary is the aggregate. Days always covers exactly [DateFrom, DateTo],
// sorted, one page per day; every mutation below preserves that.
type Diary struct {
	ID             uuid.UUID
	ConstructionID uuid.UUID
	OwnerID        uuid.UUID

	ManagerName    string
	SupervisorName string
	SiteName       string
	Address        string
	ApprovalRef    string
	Investor       string
	Implementer    string
	Description    string

	DateFrom string
	DateTo   string

	Days         []DayPage
	Contributors []Contributor

	CreatedAt time.Time
}

// New builds a diary covering [dateFrom, dateTo] with one empty page per day.
func New(constructionID, ownerID uuid.UUID, dateFrom, dateTo string, now time.Time) (*Diary, error) {
	from, err := NormalizeDate(dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := NormalizeDate(dateTo)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, badRequest("date_from is after date_to")
	}

	d := &Diary{
		ID:             uuid.New(),
		ConstructionID: constructionID,
		OwnerID:        ownerID,
		DateFrom:       from,
		DateTo:         to,
		CreatedAt:      now,
	}
	for _, day := range daySpan(from, to) {
		d.Days = append(d.Days, newDayPage(day))
	}
	return d, nil
}

// Page returns the page for date, or nil when the date is outside the window.
func (d *Diary) Page(date string) *DayPage {
	for i := range d.Days {
		if d.Days[i].Date == date {
			return &d.Days[i]
		}
	}
	return nil
}
