package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"site-diary/internal/diary"
	"site-diary/internal/model"
)

// DiaryService loads the diary aggregate, runs a domain operation on it, and
// saves the whole document back with a version compare-and-swap. Each call is
// one read-modify-write; a lost race surfaces as a conflict.
type DiaryService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{db: db, now: time.Now}
}

func (s *DiaryService) CreateDiary(ctx context.Context, constructionID, requesterID uuid.UUID, req model.CreateDiaryRequest) (*model.DiaryView, error) {
	var c model.Construction
	if err := s.db.WithContext(ctx).Where("id = ?", constructionID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("construction not found: %w", diary.ErrNotFound)
		}
		return nil, fmt.Errorf("query construction: %w", err)
	}
	if c.OwnerID != requesterID {
		return nil, fmt.Errorf("only the construction owner may create a diary: %w", diary.ErrForbidden)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Diary{}).Where("construction_id = ?", constructionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing diary: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("construction already has a diary: %w", diary.ErrConflict)
	}

	d, err := diary.New(constructionID, c.OwnerID, req.DateFrom, req.DateTo, s.now())
	if err != nil {
		return nil, err
	}
	d.ManagerName = req.ManagerName
	d.SupervisorName = req.SupervisorName
	d.SiteName = req.SiteName
	d.Address = req.Address
	d.ApprovalRef = req.ApprovalRef
	d.Investor = req.Investor
	d.Implementer = req.Implementer
	d.Description = req.Description

	row, err := encodeRow(d)
	if err != nil {
		return nil, err
	}
	row.Version = 1

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("construction already has a diary: %w", diary.ErrConflict)
			}
			return fmt.Errorf("insert diary: %w", err)
		}
		if req.PropagateDates {
			if err := tx.Model(&model.Construction{}).Where("id = ?", constructionID).
				Updates(map[string]interface{}{"date_from": d.DateFrom, "date_to": d.DateTo}).Error; err != nil {
				return fmt.Errorf("propagate dates: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diaryView(d), nil
}

func (s *DiaryService) AddContributor(ctx context.Context, diaryID, requesterID uuid.UUID, email string, role diary.Role) (*model.AddContributorResponse, error) {
	d, version, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with email %s: %w", email, diary.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := d.AddContributor(requesterID, u.ID, role); err != nil {
		return nil, err
	}
	if err := s.save(ctx, d, version, false); err != nil {
		return nil, err
	}
	return &model.AddContributorResponse{UserID: u.ID, Role: role}, nil
}

func (s *DiaryService) ModifyDateRange(ctx context.Context, diaryID, requesterID uuid.UUID, req model.DateRangeRequest) (*model.DateRangeResponse, error) {
	d, version, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if err := d.ModifyDateRange(requesterID, req.DateFrom, req.DateTo); err != nil {
		return nil, err
	}
	if err := s.save(ctx, d, version, req.PropagateDates); err != nil {
		return nil, err
	}
	return &model.DateRangeResponse{DateFrom: d.DateFrom, DateTo: d.DateTo}, nil
}

func (s *DiaryService) AddTextRecord(ctx context.Context, diaryID, requesterID uuid.UUID, category diary.Category, content string) (*model.RecordResponse, error) {
	return s.addRecord(ctx, diaryID, requesterID, category, content, "")
}

func (s *DiaryService) AddPictureRecord(ctx context.Context, diaryID, requesterID uuid.UUID, category diary.Category, picturePath string) (*model.RecordResponse, error) {
	return s.addRecord(ctx, diaryID, requesterID, category, "", picturePath)
}

func (s *DiaryService) addRecord(ctx context.Context, diaryID, requesterID uuid.UUID, category diary.Category, content, picturePath string) (*model.RecordResponse, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("category %q is not a record category: %w", category, diary.ErrBadRequest)
	}

	d, version, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}

	var author model.User
	if err := s.db.WithContext(ctx).Where("id = ?", requesterID).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("requester not found: %w", diary.ErrNotFound)
		}
		return nil, fmt.Errorf("query requester: %w", err)
	}

	rec, err := d.AddRecord(requesterID, author.Name, category, content, picturePath, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, d, version, false); err != nil {
		return nil, err
	}
	return &model.RecordResponse{
		DiaryID:     d.ID,
		RecordID:    rec.ID,
		Content:     rec.Content,
		PicturePath: rec.PicturePath,
		AuthorName:  rec.AuthorName,
		AuthorRole:  rec.AuthorRole,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

func (s *DiaryService) GetDiary(ctx context.Context, diaryID, requesterID uuid.UUID) (*model.DiaryView, error) {
	d, _, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if err := d.AuthorizeRead(requesterID); err != nil {
		return nil, err
	}
	return diaryView(d), nil
}

func (s *DiaryService) GetDayRecords(ctx context.Context, diaryID, requesterID uuid.UUID, date string) (*diary.DayPage, error) {
	d, _, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	return d.DayRecords(requesterID, date)
}

// GetSpan reports the first and last day bearing any record, nil/nil when the
// diary is blank everywhere.
func (s *DiaryService) GetSpan(ctx context.Context, diaryID uuid.UUID) (*model.SpanResponse, error) {
	d, _, err := s.load(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	first, last, ok := d.FirstLastDayWithRecord()
	if !ok {
		return &model.SpanResponse{}, nil
	}
	return &model.SpanResponse{FirstDay: &first, LastDay: &last}, nil
}

// load fetches the diary row plus the owning construction's owner id and
// decodes the embedded documents into the aggregate.
func (s *DiaryService) load(ctx context.Context, diaryID uuid.UUID) (*diary.Diary, int, error) {
	var row model.Diary
	if err := s.db.WithContext(ctx).Where("id = ?", diaryID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("diary not found: %w", diary.ErrNotFound)
		}
		return nil, 0, fmt.Errorf("query diary: %w", err)
	}
	var c model.Construction
	if err := s.db.WithContext(ctx).Where("id = ?", row.ConstructionID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("owning construction missing: %w", diary.ErrInvariant)
		}
		return nil, 0, fmt.Errorf("query construction: %w", err)
	}

	d := &diary.Diary{
		ID:             row.ID,
		ConstructionID: row.ConstructionID,
		OwnerID:        c.OwnerID,
		ManagerName:    row.ManagerName,
		SupervisorName: row.SupervisorName,
		SiteName:       row.SiteName,
		Address:        row.Address,
		ApprovalRef:    row.ApprovalRef,
		Investor:       row.Investor,
		Implementer:    row.Implementer,
		Description:    row.Description,
		DateFrom:       row.DateFrom,
		DateTo:         row.DateTo,
		CreatedAt:      row.CreatedAt,
	}
	if len(row.Days) > 0 {
		if err := json.Unmarshal(row.Days, &d.Days); err != nil {
			return nil, 0, fmt.Errorf("decode days: %w", err)
		}
	}
	if len(row.Contributors) > 0 {
		if err := json.Unmarshal(row.Contributors, &d.Contributors); err != nil {
			return nil, 0, fmt.Errorf("decode contributors: %w", err)
		}
	}
	return d, row.Version, nil
}

// save writes the mutable part of the aggregate back, guarded by the version
// read at load time. Zero rows affected means a concurrent writer won.
func (s *DiaryService) save(ctx context.Context, d *diary.Diary, version int, propagateDates bool) error {
	row, err := encodeRow(d)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Diary{}).
			Where("id = ? AND version = ?", d.ID, version).
			Updates(map[string]interface{}{
				"date_from":    row.DateFrom,
				"date_to":      row.DateTo,
				"days":         row.Days,
				"contributors": row.Contributors,
				"version":      version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("save diary: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("diary was modified concurrently: %w", diary.ErrConflict)
		}
		if propagateDates {
			if err := tx.Model(&model.Construction{}).Where("id = ?", d.ConstructionID).
				Updates(map[string]interface{}{"date_from": d.DateFrom, "date_to": d.DateTo}).Error; err != nil {
				return fmt.Errorf("propagate dates: %w", err)
			}
		}
		return nil
	})
}

func encodeRow(d *diary.Diary) (*model.Diary, error) {
	days, err := json.Marshal(d.Days)
	if err != nil {
		return nil, fmt.Errorf("encode days: %w", err)
	}
	contribs, err := json.Marshal(d.Contributors)
	if err != nil {
		return nil, fmt.Errorf("encode contributors: %w", err)
	}
	return &model.Diary{
		ID:             d.ID,
		ConstructionID: d.ConstructionID,
		ManagerName:    d.ManagerName,
		SupervisorName: d.SupervisorName,
		SiteName:       d.SiteName,
		Address:        d.Address,
		ApprovalRef:    d.ApprovalRef,
		Investor:       d.Investor,
		Implementer:    d.Implementer,
		Description:    d.Description,
		DateFrom:       d.DateFrom,
		DateTo:         d.DateTo,
		Days:           datatypes.JSON(days),
		Contributors:   datatypes.JSON(contribs),
		CreatedAt:      d.CreatedAt,
	}, nil
}

func diaryView(d *diary.Diary) *model.DiaryView {
	days := d.Days
	if days == nil {
		days = []diary.DayPage{}
	}
	contribs := d.Contributors
	if contribs == nil {
		contribs = []diary.Contributor{}
	}
	return &model.DiaryView{
		ID:             d.ID,
		ConstructionID: d.ConstructionID,
		ManagerName:    d.ManagerName,
		SupervisorName: d.SupervisorName,
		SiteName:       d.SiteName,
		Address:        d.Address,
		ApprovalRef:    d.ApprovalRef,
		Investor:       d.Investor,
		Implementer:    d.Implementer,
		Description:    d.Description,
		DateFrom:       d.DateFrom,
		DateTo:         d.DateTo,
		Days:           days,
		Contributors:   contribs,
		CreatedAt:      d.CreatedAt,
	}
}
