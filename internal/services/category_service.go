package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/slug"
)

const maxNameLength = 255

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must be at most 255 characters")
	}
	return name, nil
}

// nameTaken reports whether another category already uses name.
func (s *categoryService) nameTaken(db *gorm.DB, name, exceptID string) (bool, error) {
	q := db.Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(name string) (*models.Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(s.db, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.db.Create(category).Error; err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategories lists every category by name with its expense count.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.Model(&models.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM expenses WHERE expenses.category_id = categories.id) AS expenses_count").
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames a category and re-derives its slug.
func (s *categoryService) UpdateCategory(categoryID, name string) (*models.Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(s.db, name, categoryID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	updates := map[string]any{"name": name, "slug": slug.Make(name)}
	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// DeleteCategory removes a category that no expense references. The
// reference check and the delete are one statement, so an expense inserted
// concurrently cannot be orphaned.
func (s *categoryService) DeleteCategory(categoryID string) error {
	res := s.db.
		Where("id = ?", categoryID).
		Where("NOT EXISTS (SELECT 1 FROM expenses WHERE expenses.category_id = categories.id)").
		Delete(&models.Category{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrCategoryInUse
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing deleted: either the category is missing or still referenced.
	if _, err := s.GetCategoryByID(categoryID); err != nil {
		return err
	}
	return apperrors.ErrCategoryInUse
}

// FirstOrCreateCategory returns the category named name, creating it when
// absent. created reports whether a row was inserted.
func (s *categoryService) FirstOrCreateCategory(name string) (*models.Category, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, false, err
	}

	var category models.Category
	err = s.db.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, err := s.CreateCategory(name)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
