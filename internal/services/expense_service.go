package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

const maxDescriptionLength = 255

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validate checks the invariants every stored expense must satisfy and
// normalizes the description and date in place.
func (input *ExpenseInput) validate() error {
	if input.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most two decimal places")
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if len([]rune(input.Description)) > maxDescriptionLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 255 characters")
	}
	if input.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if input.CategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	input.Date = models.DateOnly(input.Date)
	return nil
}

// requireCategory fails with CATEGORY_NOT_FOUND unless categoryID exists.
func requireCategory(tx *gorm.DB, categoryID string) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateExpense stores a new expense. The category check and the insert run
// in one transaction; nothing is written when the category is unknown.
func (s *expenseService) CreateExpense(input ExpenseInput) (*models.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Amount:      input.Amount,
		Description: input.Description,
		Date:        input.Date,
		CategoryID:  input.CategoryID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireCategory(tx, input.CategoryID); err != nil {
			return err
		}
		if err := tx.Omit("Category").Create(expense).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(expense.ID)
}

// GetExpenses lists expenses newest first, each with its category.
func (s *expenseService) GetExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Expense{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	err := s.db.Preload("Category").
		Order("expenses.date DESC, expenses.created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense with its category.
func (s *expenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces every writable field of an expense.
func (s *expenseService) UpdateExpense(expenseID string, input ExpenseInput) (*models.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := tx.Where("id = ?", expenseID).First(&expense).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrExpenseNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := requireCategory(tx, input.CategoryID); err != nil {
			return err
		}

		updates := map[string]any{
			"amount":      input.Amount,
			"description": input.Description,
			"date":        input.Date,
			"category_id": input.CategoryID,
		}
		if err := tx.Model(&expense).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetExpenseByID(expenseID)
}

// DeleteExpense permanently removes an expense.
func (s *expenseService) DeleteExpense(expenseID string) error {
	res := s.db.Where("id = ?", expenseID).Delete(&models.Expense{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}
