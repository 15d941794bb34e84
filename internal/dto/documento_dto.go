package dto

// EmitirDocumentoRequest carries the explicit confirmations the desktop
// shell collects before issuing. Both default to false: the API never
// assumes a yes the user did not click.
type EmitirDocumentoRequest struct {
	// Confirmar approves invoicing a venta that has no presupuesto nor albaran.
	Confirmar bool `json:"confirmar"`
	// ConfirmarAceptacion approves moving past a presupuesto still pendiente.
	ConfirmarAceptacion bool `json:"confirmar_aceptacion"`
}

// DocumentoRef identifies an issued document inside venta responses.
type DocumentoRef struct {
	Tipo   string `json:"tipo"`
	Numero string `json:"numero"`
}

type DocumentoResponse struct {
	Tipo         string  `json:"tipo"`
	Numero       string  `json:"numero"`
	FechaEmision string  `json:"fecha_emision"`
	FechaValidez *string `json:"fecha_validez,omitempty"`
	RutaPDF      string  `json:"ruta_pdf"`
	// Reutilizado is true when the venta had already issued this tipo and
	// the call only re-rendered the PDF under the original numero.
	Reutilizado bool   `json:"reutilizado"`
	EstadoVenta string `json:"estado_venta"`
}

// RutaPDFResponse answers "where is the file for this document".
// Existe reflects the filesystem at call time: the path may be recorded
// while the file was deleted by hand, and the shell re-issues to recover.
type RutaPDFResponse struct {
	Tipo   string `json:"tipo"`
	Numero string `json:"numero"`
	Ruta   string `json:"ruta"`
	Existe bool   `json:"existe"`
}
