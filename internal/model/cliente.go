package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is the customer master record, keyed by NIF.
// Ventas keep their own frozen copy of these fields (ClienteSnapshot):
// editing a Cliente never rewrites documents already issued.
type Cliente struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	NIF          string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Direccion    string
	CodigoPostal string
	Ciudad       string
	Provincia    string
	Email        string
	Telefono     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ClienteSnapshot is the client identity frozen into a venta when it is
// created. Issued documents must show the client as of that moment, so
// these columns are denormalized and never refreshed from the Cliente row.
type ClienteSnapshot struct {
	Nombre       string `gorm:"not null"`
	NIF          string `gorm:"not null"`
	Direccion    string
	CodigoPostal string
	Ciudad       string
	Provincia    string
}

// Snapshot freezes the fields that appear on issued documents.
func (c *Cliente) Snapshot() ClienteSnapshot {
	return ClienteSnapshot{
		Nombre:       c.Nombre,
		NIF:          c.NIF,
		Direccion:    c.Direccion,
		CodigoPostal: c.CodigoPostal,
		Ciudad:       c.Ciudad,
		Provincia:    c.Provincia,
	}
}
