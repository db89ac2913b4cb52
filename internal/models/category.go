package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid reports whether t is a supported category type
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a transaction category. A nil UserID marks a system
// default that every user can read.
type Category struct {
	Base
	UserID *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
	Color  string       `gorm:"size:7;not null" json:"color"`
	Icon   string       `json:"icon"`
}

// IsDefault reports whether the category is a system default
func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

// DefaultCategories returns the system categories seeded for all users
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: CategoryTypeIncome, Color: "#4CAF50", Icon: "work"},
		{Name: "Investments", Type: CategoryTypeIncome, Color: "#8BC34A", Icon: "trending_up"},
		{Name: "Other Income", Type: CategoryTypeIncome, Color: "#CDDC39", Icon: "attach_money"},
		{Name: "Housing", Type: CategoryTypeExpense, Color: "#F44336", Icon: "home"},
		{Name: "Food", Type: CategoryTypeExpense, Color: "#FF9800", Icon: "restaurant"},
		{Name: "Transportation", Type: CategoryTypeExpense, Color: "#2196F3", Icon: "directions_car"},
		{Name: "Utilities", Type: CategoryTypeExpense, Color: "#9C27B0", Icon: "bolt"},
		{Name: "Healthcare", Type: CategoryTypeExpense, Color: "#E91E63", Icon: "local_hospital"},
		{Name: "Entertainment", Type: CategoryTypeExpense, Color: "#00BCD4", Icon: "movie"},
		{Name: "Other Expenses", Type: CategoryTypeExpense, Color: "#9E9E9E", Icon: "more_horiz"},
	}
}
