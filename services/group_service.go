package services

import (
	"errors"
	"fmt"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// GroupService manages the lookup table. Entries are grouped by group_code;
// clients read a partition (batch types, certificate types) to populate their
// pickers. The services here never enforce membership: a batch keeps whatever
// certificate_type it was created with even if the entry is later removed.
type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Create adds a lookup entry. The code must be unique across all partitions.
func (s *GroupService) Create(req *models.GroupCreateRequest) (*models.Group, error) {
	var group models.Group
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Where("code = ?", req.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("check code: %w", err)
		}
		if count > 0 {
			return ErrDuplicateCode
		}

		group = models.Group{
			Code:        req.Code,
			CodeName:    req.CodeName,
			GroupCode:   req.GroupCode,
			GroupName:   req.GroupName,
			Description: req.Description,
		}
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update applies partial-update semantics; a code change is checked against
// every other entry.
func (s *GroupService) Update(id int, req *models.GroupUpdateRequest) (*models.Group, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load group: %w", err)
		}

		updates := map[string]interface{}{}
		if req.Code != nil && *req.Code != group.Code {
			var count int64
			if err := tx.Model(&models.Group{}).Where("code = ? AND id <> ?", *req.Code, id).Count(&count).Error; err != nil {
				return fmt.Errorf("check code: %w", err)
			}
			if count > 0 {
				return ErrDuplicateCode
			}
			updates["code"] = *req.Code
		}
		if req.CodeName != nil {
			updates["code_name"] = *req.CodeName
		}
		if req.GroupCode != nil {
			updates["group_code"] = *req.GroupCode
		}
		if req.GroupName != nil {
			updates["group_name"] = *req.GroupName
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&group).Updates(updates).Error; err != nil {
			return fmt.Errorf("update group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *GroupService) Delete(id int) error {
	result := s.db.Delete(&models.Group{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete group: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GroupService) Get(id int) (*models.Group, error) {
	var group models.Group
	err := s.db.First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	return &group, nil
}

// List returns entries newest first, optionally restricted to one partition.
func (s *GroupService) List(groupCode string) ([]models.Group, error) {
	query := s.db.Order("created_at DESC")
	if groupCode != "" {
		query = query.Where("group_code = ?", groupCode)
	}

	var groups []models.Group
	if err := query.Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ByCode returns one partition ordered by group name, the shape pickers want.
func (s *GroupService) ByCode(groupCode string) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.Where("group_code = ?", groupCode).
		Order("group_name").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("list groups by code: %w", err)
	}
	return groups, nil
}
