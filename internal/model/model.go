package model

import (
	"time"

	"github.com/google/uuid"

	"site-diary/internal/diary"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ConstructionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DateFrom    string `json:"date_from" binding:"required"`
	DateTo      string `json:"date_to" binding:"required"`
}

type CreateDiaryRequest struct {
	DateFrom       string `json:"date_from" binding:"required"`
	DateTo         string `json:"date_to" binding:"required"`
	ManagerName    string `json:"manager_name"`
	SupervisorName string `json:"supervisor_name"`
	SiteName       string `json:"site_name"`
	Address        string `json:"address"`
	ApprovalRef    string `json:"approval_ref"`
	Investor       string `json:"investor"`
	Implementer    string `json:"implementer"`
	Description    string `json:"description"`
	// PropagateDates mirrors the new window onto the construction's dates.
	PropagateDates bool `json:"propagate_dates"`
}

type AddContributorRequest struct {
	Email string     `json:"email" binding:"required"`
	Role  diary.Role `json:"role" binding:"required"`
}

type AddContributorResponse struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   diary.Role `json:"role"`
}

type DateRangeRequest struct {
	DateFrom       string `json:"date_from" binding:"required"`
	DateTo         string `json:"date_to" binding:"required"`
	PropagateDates bool   `json:"propagate_dates"`
}

type DateRangeResponse struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type AddTextRecordRequest struct {
	Category diary.Category `json:"category" binding:"required"`
	Content  string         `json:"content" binding:"required"`
}

type RecordResponse struct {
	DiaryID     uuid.UUID  `json:"diary_id"`
	RecordID    uuid.UUID  `json:"record_id"`
	Content     string     `json:"content,omitempty"`
	PicturePath string     `json:"picture_path,omitempty"`
	AuthorName  string     `json:"author_name"`
	AuthorRole  diary.Role `json:"author_role"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SpanResponse struct {
	FirstDay *string `json:"first_day"`
	LastDay  *string `json:"last_day"`
}

// DiaryView is the full aggregate as returned to clients.
type DiaryView struct {
	ID             uuid.UUID           `json:"id"`
	ConstructionID uuid.UUID           `json:"construction_id"`
	ManagerName    string              `json:"manager_name"`
	SupervisorName string              `json:"supervisor_name"`
	SiteName       string              `json:"site_name"`
	Address        string              `json:"address"`
	ApprovalRef    string              `json:"approval_ref"`
	Investor       string              `json:"investor"`
	Implementer    string              `json:"implementer"`
	Description    string              `json:"description"`
	DateFrom       string              `json:"date_from"`
	DateTo         string              `json:"date_to"`
	Days           []diary.DayPage     `json:"days"`
	Contributors   []diary.Contributor `json:"contributors"`
	CreatedAt      time.Time           `json:"created_at"`
}
