package customers

import (
	"time"
)

// Assignment links a customer to a survey template hosted by the forms
// provider.
type Assignment struct {
	FormID     string    `json:"form_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type Customer struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Company   string       `json:"company,omitempty"`
	Templates []Assignment `json:"templates"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Clone copies the customer including its template slice.
func (c *Customer) Clone() *Customer {
	copied := *c
	copied.Templates = append([]Assignment{}, c.Templates...)
	return &copied
}

// HasTemplate reports whether formID is assigned.
func (c *Customer) HasTemplate(formID string) bool {
	for _, a := range c.Templates {
		if a.FormID == formID {
			return true
		}
	}
	return false
}

// NewCustomer is the input for Create.
type NewCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// CustomerUpdate changes only the fields that are set.
type CustomerUpdate struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
}
