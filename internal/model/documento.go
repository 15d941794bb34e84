package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoDocumento enumerates the documents a venta can issue.
// Tipo: "presupuesto" | "albaran" | "factura".
type TipoDocumento string

const (
	TipoPresupuesto TipoDocumento = "presupuesto"
	TipoAlbaran     TipoDocumento = "albaran"
	TipoFactura     TipoDocumento = "factura"
)

// prefijos is part of the printed number format. Facturas carry no prefix,
// so with the default serie "A" they read "A-2026-0001".
var prefijos = map[TipoDocumento]string{
	TipoPresupuesto: "P",
	TipoAlbaran:     "AL",
	TipoFactura:     "",
}

func (t TipoDocumento) EsValido() bool {
	_, ok := prefijos[t]
	return ok
}

func (t TipoDocumento) Prefijo() string {
	return prefijos[t]
}

// ParseTipoDocumento validates a raw tipo string coming from a URL segment.
func ParseTipoDocumento(s string) (TipoDocumento, bool) {
	t := TipoDocumento(s)
	return t, t.EsValido()
}

// FormatearNumero renders an issued sequence number in the printed format
// <prefijo><serie>-<año>-<secuencia en 4 dígitos>. The shape is a contract
// with the accountant: it sorts by year then sequence and never changes.
func FormatearNumero(t TipoDocumento, serie string, anio, numero int) string {
	return fmt.Sprintf("%s%s-%d-%04d", t.Prefijo(), serie, anio, numero)
}

// AnioDeNumero extracts the year segment from a formatted number. The serie
// is user configured and may itself contain dashes, so it parses from the
// end: the year is always the second to last dash separated segment.
func AnioDeNumero(numero string) (int, bool) {
	partes := strings.Split(numero, "-")
	if len(partes) < 3 {
		return 0, false
	}
	anio, err := strconv.Atoi(partes[len(partes)-2])
	if err != nil || anio < 1000 {
		return 0, false
	}
	return anio, true
}

// DocumentoVenta records one issued rendering of a venta. At most one row
// exists per (venta, tipo); re-issuing reuses the stored numero and fecha
// instead of minting again, so regenerating a lost PDF is idempotent.
type DocumentoVenta struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	VentaID      uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_documentos_venta_tipo"`
	Tipo         TipoDocumento `gorm:"type:varchar(20);not null;uniqueIndex:idx_documentos_venta_tipo"`
	Numero       string        `gorm:"not null;index"`
	FechaEmision time.Time     `gorm:"not null"`
	// FechaValidez applies to presupuestos only.
	FechaValidez *time.Time
	// RutaPDF stays NULL until the first successful render. A committed
	// document without a path is recovered by issuing the same tipo again.
	RutaPDF   *string `gorm:"column:ruta_pdf"`
	CreatedAt time.Time
}

func (d *DocumentoVenta) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Serie tracks the last issued sequence number per (tipo, codigo, anio).
// A new year starts back at 1. Numbers are minted with an UPSERT inside the
// issuing transaction, so a rollback returns the number to the pool and no
// gap appears. The integer key lets that raw statement insert rows itself.
type Serie struct {
	ID           uint          `gorm:"primaryKey"`
	Tipo         TipoDocumento `gorm:"type:varchar(20);not null;uniqueIndex:idx_series_clave"`
	Codigo       string        `gorm:"column:serie;not null;uniqueIndex:idx_series_clave"`
	Anio         int           `gorm:"not null;uniqueIndex:idx_series_clave"`
	UltimoNumero int           `gorm:"not null;default:0"`
}
