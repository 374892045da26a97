// Package admin declares the back-office console: site branding and, per
// entity, which fields are listed, filtered, searched and editable inline.
package admin

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"luxe-backoffice/internal/config"
	"luxe-backoffice/internal/model"
)

// SiteConfig is the console branding passed to the UI bootstrap.
type SiteConfig struct {
	Header     string `json:"site_header"`
	Title      string `json:"site_title"`
	IndexTitle string `json:"index_title"`
}

// NewSiteConfig builds the site branding from configuration.
func NewSiteConfig(cfg config.AdminSiteConfig) SiteConfig {
	return SiteConfig{
		Header:     cfg.Header,
		Title:      cfg.Title,
		IndexTitle: cfg.IndexTitle,
	}
}

// Fieldset groups fields on the edit form.
type Fieldset struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Inline is a child collection edited on the parent's form.
type Inline struct {
	Model          string   `json:"model"`
	Fields         []string `json:"fields"`
	ReadonlyFields []string `json:"readonly_fields,omitempty"`
	Extra          int      `json:"extra"`
}

// ModelAdmin describes how one entity is presented in the console.
type ModelAdmin struct {
	Name           string     `json:"name"`
	ListDisplay    []string   `json:"list_display"`
	ListFilter     []string   `json:"list_filter,omitempty"`
	SearchFields   []string   `json:"search_fields,omitempty"`
	ListEditable   []string   `json:"list_editable,omitempty"`
	ReadonlyFields []string   `json:"readonly_fields,omitempty"`
	Fieldsets      []Fieldset `json:"fieldsets,omitempty"`
	Inlines        []Inline   `json:"inlines,omitempty"`

	// Representation is the serialized form fields are checked against.
	Representation interface{} `json:"-"`
}

// CheckEditable rejects any field outside ListEditable.
func (m *ModelAdmin) CheckEditable(fields []string) error {
	editable := make(map[string]struct{}, len(m.ListEditable))
	for _, f := range m.ListEditable {
		editable[f] = struct{}{}
	}

	errs := map[string]string{}
	for _, f := range fields {
		if _, ok := editable[f]; !ok {
			errs[f] = "field is not editable from the list view"
		}
	}
	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// Registry holds the ModelAdmin for every entity, keyed by name.
type Registry struct {
	models map[string]*ModelAdmin
}

// NewRegistry creates a registry from declarations. Duplicate names are rejected.
func NewRegistry(models ...*ModelAdmin) (*Registry, error) {
	r := &Registry{models: make(map[string]*ModelAdmin, len(models))}
	for _, m := range models {
		if _, dup := r.models[m.Name]; dup {
			return nil, fmt.Errorf("model %q registered twice", m.Name)
		}
		r.models[m.Name] = m
	}
	return r, nil
}

// Get returns the ModelAdmin registered under name.
func (r *Registry) Get(name string) (*ModelAdmin, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Models returns every registration sorted by name.
func (r *Registry) Models() []*ModelAdmin {
	out := make([]*ModelAdmin, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks every referenced field against the model's representation.
func (r *Registry) Validate() error {
	var problems []string
	for _, m := range r.Models() {
		if m.Representation == nil {
			problems = append(problems, m.Name+": no representation")
			continue
		}
		known := FieldNames(m.Representation)
		check := func(kind string, fields []string) {
			for _, f := range fields {
				if _, ok := known[f]; !ok {
					problems = append(problems, fmt.Sprintf("%s.%s: unknown field %q", m.Name, kind, f))
				}
			}
		}
		check("list_display", m.ListDisplay)
		check("list_filter", m.ListFilter)
		check("list_editable", m.ListEditable)
		check("readonly_fields", m.ReadonlyFields)
		for _, fs := range m.Fieldsets {
			check("fieldsets", fs.Fields)
		}
		for _, e := range m.ListEditable {
			if !contains(m.ListDisplay, e) {
				problems = append(problems, fmt.Sprintf("%s.list_editable: %q is not in list_display", m.Name, e))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid admin registry: %s", strings.Join(problems, "; "))
	}
	return nil
}

// FieldNames lists the JSON field names of a struct value.
func FieldNames(v interface{}) map[string]struct{} {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names[name] = struct{}{}
	}
	return names
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
