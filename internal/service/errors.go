package service

import "errors"

// Sentinel errors the handlers map to stable HTTP statuses. The messages
// travel verbatim to the desktop shell, so they are written for the user.
var (
	ErrVentaNoEncontrada     = errors.New("venta no encontrada")
	ErrClienteNoEncontrado   = errors.New("cliente no encontrado")
	ErrSinItems              = errors.New("la venta no tiene conceptos; añade al menos uno antes de emitir")
	ErrEmisorIncompleto      = errors.New("configura el nombre y NIF del emisor antes de emitir documentos")
	ErrClienteIncompleto     = errors.New("el cliente necesita nombre y NIF para emitir documentos")
	ErrRequiereConfirmacion  = errors.New("facturar sin presupuesto ni albarán previo requiere confirmación explícita")
	ErrRequiereAceptacion    = errors.New("el presupuesto sigue pendiente de aceptación; confirma la aceptación para continuar")
	ErrVentaRechazada        = errors.New("la venta está rechazada y la emisión de documentos está bloqueada")
	ErrVentaFacturada        = errors.New("la venta ya tiene factura emitida y no admite cambios")
	ErrEstadoInvalido        = errors.New("transición de estado no permitida")
	ErrTipoDocumentoInvalido = errors.New("tipo de documento desconocido")
	ErrDocumentoNoEmitido    = errors.New("la venta no ha emitido ese documento todavía")
	ErrRenderPDF             = errors.New("no se pudo generar el PDF; el documento queda emitido y se regenerará al reintentar")
)
