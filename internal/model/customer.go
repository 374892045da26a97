package model

import (
	"strings"
	"time"
)

// Customer is a buyer record.
type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
	CreatedAt time.Time
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return FullName(c.FirstName, c.LastName)
}

// FullName joins a first and last name, ignoring empty parts.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// CustomerInput is the write payload for customers.
type CustomerInput struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	ZipCode   *string `json:"zip_code" validate:"omitempty,max=20"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
}

// Missing lists required fields absent from a full write.
func (in *CustomerInput) Missing() []string {
	var missing []string
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.FirstName == nil || strings.TrimSpace(*in.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if in.LastName == nil || strings.TrimSpace(*in.LastName) == "" {
		missing = append(missing, "last_name")
	}
	return missing
}

// Check validates rules the struct tags cannot express.
func (in *CustomerInput) Check() map[string]string {
	fields := map[string]string{}
	checkNotBlank(fields, "first_name", in.FirstName)
	checkNotBlank(fields, "last_name", in.LastName)
	return fields
}

// Apply copies the provided fields onto c.
func (in *CustomerInput) Apply(c *Customer) {
	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	setString(&c.FirstName, in.FirstName)
	setString(&c.LastName, in.LastName)
	setString(&c.Phone, in.Phone)
	setString(&c.Address, in.Address)
	setString(&c.City, in.City)
	setString(&c.State, in.State)
	setString(&c.ZipCode, in.ZipCode)
	setString(&c.Country, in.Country)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
