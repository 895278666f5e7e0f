package models

// Category groups expenses. Names are unique; the slug is derived from the
// name on every write.
type Category struct {
	Base
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:255;not null;index" json:"slug"`

	// ExpensesCount is only populated by listing queries.
	ExpensesCount *int64 `gorm:"->;-:migration" json:"expenses_count,omitempty"`
}
