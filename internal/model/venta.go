package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venta is the sales aggregate behind every issued document. It owns its
// items and issued documents; deleting a venta cascades to both.
// The stored totals are denormalized for listing and must always equal a
// fresh calculation over Items.
type Venta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClienteID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Cliente is the snapshot frozen at creation time (see ClienteSnapshot).
	Cliente ClienteSnapshot `gorm:"embedded;embeddedPrefix:cliente_"`

	BaseImponible  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalIVA       decimal.Decimal `gorm:"type:decimal(12,2);not null;column:total_iva"`
	IRPFPorcentaje decimal.Decimal `gorm:"type:decimal(5,2);not null;column:irpf_porcentaje"`
	TotalIRPF      decimal.Decimal `gorm:"type:decimal(12,2);not null;column:total_irpf"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	MetodoPago string      `gorm:"type:varchar(40)"`
	Notas      string      `gorm:"type:text"`
	Estado     EstadoVenta `gorm:"type:varchar(20);not null;default:'borrador'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items      []VentaItem      `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Documentos []DocumentoVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

func (v *Venta) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Avanzar moves the venta to candidato only when that is forward progress
// on the rango scale. Lower or equal rank is a no-op, which makes repeated
// calls with the same target harmless. Reports whether the estado changed.
func (v *Venta) Avanzar(candidato EstadoVenta) bool {
	if candidato.Rango() <= v.Estado.Rango() {
		return false
	}
	v.Estado = candidato
	return true
}

// Documento returns the issued document of the given tipo, or nil when the
// venta has not issued one yet. Requires Documentos to be loaded.
func (v *Venta) Documento(t TipoDocumento) *DocumentoVenta {
	for i := range v.Documentos {
		if v.Documentos[i].Tipo == t {
			return &v.Documentos[i]
		}
	}
	return nil
}

// VentaItem is one line of a venta. Subtotal is always Cantidad times
// PrecioUnitario, stored unrounded; the per-line IVA amount is derived at
// calculation time and never stored.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Orden          int             `gorm:"not null;default:0"` // preserves the line order of the form
	Descripcion    string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unidad         string          `gorm:"not null;default:'unidad'"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	IVAPorcentaje  decimal.Decimal `gorm:"type:decimal(5,2);not null;column:iva_porcentaje"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *VentaItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
