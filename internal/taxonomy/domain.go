package taxonomy

// Taxonomy is the category/subcategory structure classifying one user's
// products. Categories are case-sensitive and unique; each subcategory is
// unique within its category.
type Taxonomy struct {
	Categories    []string            `json:"categories"`
	Subcategories map[string][]string `json:"subcategories"`
}
