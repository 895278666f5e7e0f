package reporting

import (
	"fmt"

	"gorm.io/gorm"
)

// dialect renders calendar-part extraction for the connected database.
type dialect struct {
	name string
}

func dialectOf(db *gorm.DB) dialect {
	return dialect{name: db.Dialector.Name()}
}

func (d dialect) year(col string) string {
	if d.name == "sqlite" {
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("CAST(EXTRACT(YEAR FROM %s) AS INTEGER)", col)
}

func (d dialect) month(col string) string {
	if d.name == "sqlite" {
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("CAST(EXTRACT(MONTH FROM %s) AS INTEGER)", col)
}

func (d dialect) quarter(col string) string {
	if d.name == "sqlite" {
		return fmt.Sprintf("((CAST(strftime('%%m', %s) AS INTEGER) + 2) / 3)", col)
	}
	return fmt.Sprintf("CAST(EXTRACT(QUARTER FROM %s) AS INTEGER)", col)
}

// sub returns the expression for the sub-year part of a bucket in view.
func (d dialect) sub(view View, col string) string {
	switch view {
	case ViewYearly:
		return "0"
	case ViewQuarterly:
		return d.quarter(col)
	default:
		return d.month(col)
	}
}
