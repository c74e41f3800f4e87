package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered customer.
type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmailAddress string    `gorm:"uniqueIndex;not null"`
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relations
	Groups []*CustomerGroup `gorm:"many2many:customer_group_members"`
}

// TableName returns the database table name.
func (Customer) TableName() string {
	return "customers"
}

// CustomerGroup is a named grouping of customers, referenced by
// promotion conditions.
type CustomerGroup struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

// TableName returns the database table name.
func (CustomerGroup) TableName() string {
	return "customer_groups"
}

// FacetValue is a single value of a product facet (e.g. "brand:acme"),
// referenced by promotion conditions.
type FacetValue struct {
	ID        string `gorm:"primaryKey"`
	Code      string `gorm:"not null"`
	Name      string
	CreatedAt time.Time
}

// TableName returns the database table name.
func (FacetValue) TableName() string {
	return "facet_values"
}

// ProductVariant is the purchasable unit referenced by order lines.
// Facet values are inherited from the owning product and extended per
// variant.
type ProductVariant struct {
	ID        string `gorm:"primaryKey"`
	SKU       string `gorm:"uniqueIndex;not null"`
	Name      string
	Price     int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	FacetValues []*FacetValue `gorm:"many2many:variant_facet_values"`
}

// TableName returns the database table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}
