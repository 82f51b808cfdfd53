package domain

// Category groups stock items. Items reference a category by name.
type Category struct {
	CategoryID  string  `json:"categoryID"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ParentID    *string `json:"parentID,omitempty"`
	ParentName  *string `json:"parentName,omitempty"` // read from the parent row
	ItemCount   int     `json:"itemCount"`            // active items carrying this name
	IsActive    bool    `json:"isActive"`
	AuditFields
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search          string
	IncludeInactive bool
}

// CategoryDetail is a category with its active items.
type CategoryDetail struct {
	Category Category    `json:"category"`
	Items    []StockItem `json:"items"`
}
