package models

import "time"

// Category groups habits. The list is fixed and not user-editable.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

var seededAt = time.Now().UTC()

// DefaultCategories returns the built-in categories
func DefaultCategories() []Category {
	icon := func(s string) *string { return &s }
	return []Category{
		{ID: "1", Name: "Health", Color: "#10B981", Icon: icon("heart"), CreatedAt: seededAt},
		{ID: "2", Name: "Productivity", Color: "#3B82F6", Icon: icon("briefcase"), CreatedAt: seededAt},
		{ID: "3", Name: "Leisure", Color: "#F59E0B", Icon: icon("music"), CreatedAt: seededAt},
		{ID: "4", Name: "Education", Color: "#8B5CF6", Icon: icon("book-open"), CreatedAt: seededAt},
		{ID: "5", Name: "Finance", Color: "#10B981", Icon: icon("piggy-bank"), CreatedAt: seededAt},
		{ID: "6", Name: "Social", Color: "#EC4899", Icon: icon("users"), CreatedAt: seededAt},
	}
}
