package domain

import "strings"

// ExtractionResult is the product information recovered from a pasted link.
// Nil fields were not found on the page.
type ExtractionResult struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// IsEmpty reports whether no field was found.
func (r *ExtractionResult) IsEmpty() bool {
	return r == nil || (r.Title == nil && r.Price == nil && r.Description == nil && r.Image == nil)
}

// IsUsable reports whether the result carries a title or a price.
func (r *ExtractionResult) IsUsable() bool {
	return r != nil && (r.Title != nil || r.Price != nil)
}

// SetTitle sets the title unless the cleaned text is empty.
func (r *ExtractionResult) SetTitle(s string) {
	r.Title = optionalText(s)
}

// SetDescription sets the description unless the cleaned text is empty.
func (r *ExtractionResult) SetDescription(s string) {
	r.Description = optionalText(s)
}

// SetImage sets the image URL unless it is blank.
func (r *ExtractionResult) SetImage(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		r.Image = nil
		return
	}
	r.Image = &s
}

// SetPrice sets the price.
func (r *ExtractionResult) SetPrice(p float64) {
	r.Price = &p
}

// optionalText collapses runs of whitespace and returns nil for empty text.
func optionalText(s string) *string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return nil
	}
	return &s
}
