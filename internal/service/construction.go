package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"site-diary/internal/diary"
	"site-diary/internal/model"
)

type ConstructionService struct{ db *gorm.DB }

func NewConstructionService(db *gorm.DB) *ConstructionService {
	return &ConstructionService{db: db}
}

func (s *ConstructionService) Create(ctx context.Context, ownerID uuid.UUID, req model.ConstructionRequest) (*model.Construction, error) {
	from, err := diary.NormalizeDate(req.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := diary.NormalizeDate(req.DateTo)
	if err != nil {
		return nil, err
	}
	c := model.Construction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		DateFrom:    from,
		DateTo:      to,
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("insert construction: %w", err)
	}
	return &c, nil
}

// List returns constructions the user owns plus those whose diary lists the
// user as contributor. Contributor sets live inside the diary documents, so
// the membership check decodes them here.
func (s *ConstructionService) List(ctx context.Context, userID uuid.UUID) ([]model.Construction, error) {
	var owned []model.Construction
	if err := s.db.WithContext(ctx).Where("owner_id = ?", userID).Order("created_at").Find(&owned).Error; err != nil {
		return nil, fmt.Errorf("query owned: %w", err)
	}

	var diaries []model.Diary
	if err := s.db.WithContext(ctx).Find(&diaries).Error; err != nil {
		return nil, fmt.Errorf("query diaries: %w", err)
	}
	var contributedIDs []uuid.UUID
	for _, row := range diaries {
		var contribs []diary.Contributor
		if len(row.Contributors) > 0 {
			if err := json.Unmarshal(row.Contributors, &contribs); err != nil {
				return nil, fmt.Errorf("decode contributors: %w", err)
			}
		}
		for _, c := range contribs {
			if c.UserID == userID {
				contributedIDs = append(contributedIDs, row.ConstructionID)
				break
			}
		}
	}
	if len(contributedIDs) > 0 {
		var contributed []model.Construction
		if err := s.db.WithContext(ctx).
			Where("id IN ? AND owner_id <> ?", contributedIDs, userID).
			Find(&contributed).Error; err != nil {
			return nil, fmt.Errorf("query contributed: %w", err)
		}
		owned = append(owned, contributed...)
	}
	return owned, nil
}

func (s *ConstructionService) Get(ctx context.Context, id, requesterID uuid.UUID) (*model.Construction, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requesterID {
		var row model.Diary
		err := s.db.WithContext(ctx).Where("construction_id = ?", id).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user is neither owner nor contributor: %w", diary.ErrForbidden)
			}
			return nil, fmt.Errorf("query diary: %w", err)
		}
		var contribs []diary.Contributor
		if len(row.Contributors) > 0 {
			if err := json.Unmarshal(row.Contributors, &contribs); err != nil {
				return nil, fmt.Errorf("decode contributors: %w", err)
			}
		}
		member := false
		for _, cb := range contribs {
			if cb.UserID == requesterID {
				member = true
				break
			}
		}
		if !member {
			return nil, fmt.Errorf("user is neither owner nor contributor: %w", diary.ErrForbidden)
		}
	}
	return c, nil
}

func (s *ConstructionService) Update(ctx context.Context, id, requesterID uuid.UUID, req model.ConstructionRequest) (*model.Construction, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requesterID {
		return nil, fmt.Errorf("only the owner may update a construction: %w", diary.ErrForbidden)
	}
	from, err := diary.NormalizeDate(req.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := diary.NormalizeDate(req.DateTo)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"date_from":   from,
		"date_to":     to,
	}
	if err := s.db.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update construction: %w", err)
	}
	return s.find(ctx, id)
}

// Delete removes the construction and cascades to its diary row.
func (s *ConstructionService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	c, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if c.OwnerID != requesterID {
		return fmt.Errorf("only the owner may delete a construction: %w", diary.ErrForbidden)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("construction_id = ?", id).Delete(&model.Diary{}).Error; err != nil {
			return fmt.Errorf("delete diary: %w", err)
		}
		if err := tx.Delete(&model.Construction{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete construction: %w", err)
		}
		return nil
	})
}

func (s *ConstructionService) find(ctx context.Context, id uuid.UUID) (*model.Construction, error) {
	var c model.Construction
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("construction not found: %w", diary.ErrNotFound)
		}
		return nil, fmt.Errorf("query construction: %w", err)
	}
	return &c, nil
}
