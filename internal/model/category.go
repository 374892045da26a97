package model

import (
	"strings"
	"time"
)

// Category groups products. Slug is unique and derived from Name when omitted.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}

// CategoryInput is the write payload for categories.
type CategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description"`
}

// Missing lists required fields absent from a full write.
func (in *CategoryInput) Missing() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	return missing
}

// Check validates rules the struct tags cannot express.
func (in *CategoryInput) Check() map[string]string {
	fields := map[string]string{}
	checkNotBlank(fields, "name", in.Name)
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" && Slugify(*in.Slug) == "" {
		fields["slug"] = "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	}
	return fields
}

// Apply copies the provided fields onto c and derives the slug when needed.
func (in *CategoryInput) Apply(c *Category) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	switch {
	case in.Slug != nil && strings.TrimSpace(*in.Slug) != "":
		c.Slug = Slugify(*in.Slug)
	case c.Slug == "":
		c.Slug = Slugify(c.Name)
	}
}
