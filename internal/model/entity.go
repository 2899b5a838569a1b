package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Construction struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:char(36);index" json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateFrom    string    `gorm:"type:date" json:"date_from"`
	DateTo      string    `gorm:"type:date" json:"date_to"`
	CreatedAt   time.Time `json:"created_at"`
}

// Diary is the persisted aggregate row. The day pages and the contributor set
// are embedded JSON documents, so the whole aggregate loads and saves as one
// unit. The unique construction_id index enforces at most one diary per
// construction; Version backs the compare-and-swap save.
type Diary struct {
	ID             uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	ConstructionID uuid.UUID      `gorm:"type:char(36);uniqueIndex" json:"construction_id"`
	ManagerName    string         `json:"manager_name"`
	SupervisorName string         `json:"supervisor_name"`
	SiteName       string         `json:"site_name"`
	Address        string         `json:"address"`
	ApprovalRef    string         `json:"approval_ref"`
	Investor       string         `json:"investor"`
	Implementer    string         `json:"implementer"`
	Description    string         `json:"description"`
	DateFrom       string         `gorm:"type:date" json:"date_from"`
	DateTo         string         `gorm:"type:date" json:"date_to"`
	Days           datatypes.JSON `json:"days"`
	Contributors   datatypes.JSON `json:"contributors"`
	Version        int            `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (User) TableName() string         { return "users" }
func (Construction) TableName() string { return "constructions" }
func (Diary) TableName() string        { return "diaries" }
