package dto

import (
	"caixa/internal/domain/catalog/customer"
)

// CreateCustomerRequest for creating customers.
type CreateCustomerRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

// ToEntity converts request to domain entity.
func (r CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name)
	c.Document = r.Document
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.Notes = r.Notes
	return c
}

// UpdateCustomerRequest for updating customers.
type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies non-nil fields to an existing entity.
func (r UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Document != nil {
		c.Document = r.Document
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.Address != nil {
		c.Address = r.Address
	}
	if r.Notes != nil {
		c.Notes = r.Notes
	}
	c.Version = r.Version
}

// CustomerResponse contains customer fields.
type CustomerResponse struct {
	CatalogResponse
	Document *string `json:"document,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// FromCustomer creates CustomerResponse from domain entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Document:        c.Document,
		Phone:           c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		Notes:           c.Notes,
	}
}
