package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Estado   string `form:"estado"` // borrador | presupuestado | ... | all; empty = all
	Busqueda string `form:"q"`      // matches cliente nombre or NIF
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// VentaListItem is returned inside VentaListResponse for GET /v1/ventas.
type VentaListItem struct {
	ID            string          `json:"id"`
	ClienteNombre string          `json:"cliente_nombre"`
	ClienteNIF    string          `json:"cliente_nif"`
	Total         decimal.Decimal `json:"total"`
	Estado        string          `json:"estado"`
	Documentos    []DocumentoRef  `json:"documentos"`
	CreatedAt     string          `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	Descripcion    string          `json:"descripcion"     validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	Unidad         string          `json:"unidad"          validate:"omitempty,max=20"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	// IVAPorcentaje: nil means "use the configured default rate".
	IVAPorcentaje *decimal.Decimal `json:"iva_porcentaje"  validate:"omitempty,min=0,max=100"`
}

type CrearVentaRequest struct {
	Cliente ClienteRequest `json:"cliente" validate:"required"`
	// Items may be empty: a venta starts as borrador and can grow lines
	// later; issuing a document is what requires at least one.
	Items      []ItemVentaRequest `json:"items"       validate:"omitempty,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"omitempty,max=40"`
	// IRPFPorcentaje: nil means "use the configured default retention".
	IRPFPorcentaje *decimal.Decimal `json:"irpf_porcentaje" validate:"omitempty,min=0,max=100"`
	Notas          string           `json:"notas"`
}

// ActualizarVentaRequest replaces the editable part of a venta whole: the
// item set is swapped, not patched. The cliente snapshot is not editable.
type ActualizarVentaRequest struct {
	Items          []ItemVentaRequest `json:"items"           validate:"omitempty,dive"`
	MetodoPago     string             `json:"metodo_pago"     validate:"omitempty,max=40"`
	IRPFPorcentaje *decimal.Decimal   `json:"irpf_porcentaje" validate:"omitempty,min=0,max=100"`
	Notas          string             `json:"notas"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=aceptada pagada rechazada"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Unidad         string          `json:"unidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	IVAPorcentaje  decimal.Decimal `json:"iva_porcentaje"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type DesgloseIVAResponse struct {
	Porcentaje decimal.Decimal `json:"porcentaje"`
	Base       decimal.Decimal `json:"base"`
	Cuota      decimal.Decimal `json:"cuota"`
}

type VentaResponse struct {
	ID             string                `json:"id"`
	Cliente        ClienteVentaResponse  `json:"cliente"`
	Items          []ItemVentaResponse   `json:"items"`
	BaseImponible  decimal.Decimal       `json:"base_imponible"`
	TotalIVA       decimal.Decimal       `json:"total_iva"`
	IRPFPorcentaje decimal.Decimal       `json:"irpf_porcentaje"`
	TotalIRPF      decimal.Decimal       `json:"total_irpf"`
	Total          decimal.Decimal       `json:"total"`
	DesgloseIVA    []DesgloseIVAResponse `json:"desglose_iva"`
	MetodoPago     string                `json:"metodo_pago"`
	Notas          string                `json:"notas"`
	Estado         string                `json:"estado"`
	Documentos     []DocumentoRef        `json:"documentos"`
	CreatedAt      string                `json:"created_at"`
}

// VentaEliminadaResponse reports what DELETE actually cleaned up. Paths the
// OS refused to remove are listed apart; the venta itself is gone even then.
type VentaEliminadaResponse struct {
	ID                 string   `json:"id"`
	ArchivosEliminados []string `json:"archivos_eliminados"`
	ArchivosConError   []string `json:"archivos_con_error,omitempty"`
}
