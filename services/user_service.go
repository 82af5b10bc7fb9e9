package services

import (
	"errors"
	"fmt"

	"certificate-management-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns account management: admin CRUD over users plus the
// instructor lookup batch creation depends on. Login and password changes
// live in the auth controller.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create registers an account with a bcrypt-hashed password. The email must
// not be in use.
func (s *UserService) Create(req *models.UserCreateRequest) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var user models.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		user = models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashed),
			Role:     req.Role,
			IsActive: active,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		// The column default is true, so a zero-valued IsActive is dropped
		// from the insert and must be written explicitly.
		if !active {
			if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("deactivate user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(user.ID)
}

// Update applies partial-update semantics. An email change is checked against
// every other account.
func (s *UserService) Update(id int, req *models.UserUpdateRequest) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Email != nil && *req.Email != user.Email {
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", *req.Email, id).Count(&count).Error; err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if count > 0 {
				return ErrDuplicateEmail
			}
			updates["email"] = *req.Email
		}
		if req.Role != nil {
			updates["role"] = *req.Role
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes an account. Refused while the user is still assigned as
// instructor on any batch; those batches must be reassigned first.
func (s *UserService) Delete(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Batch{}).Where("instructor_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count assigned batches: %w", err)
		}
		if count > 0 {
			return ErrUserHasBatches
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// ToggleStatus flips is_active and returns the new state. A deactivated
// instructor keeps their batches but fails the instructor check on new ones.
func (s *UserService) ToggleStatus(id int) (bool, error) {
	var newStatus bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		newStatus = !user.IsActive
		if err := tx.Model(&user).Update("is_active", newStatus).Error; err != nil {
			return fmt.Errorf("toggle user status: %w", err)
		}
		return nil
	})
	return newStatus, err
}

func (s *UserService) Get(id int) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// List returns users newest first, optionally filtered by role and by status
// ("active" or "inactive").
func (s *UserService) List(role, status string) ([]models.User, error) {
	query := s.db.Order("created_at DESC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	switch status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Instructors returns the active instructors, ordered by name. Clients use
// this to populate the batch instructor picker.
func (s *UserService) Instructors() ([]models.User, error) {
	var users []models.User
	err := s.db.Where("role = ? AND is_active = ?", models.RoleInstructor, true).
		Order("name").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return users, nil
}
