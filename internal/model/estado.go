package model

// EstadoVenta is the lifecycle state of a venta.
// Estado: "borrador" | "presupuestado" | "rechazado" | "aceptado" |
// "entregado" | "facturado" | "pagado".
type EstadoVenta string

const (
	EstadoBorrador      EstadoVenta = "borrador"
	EstadoPresupuestado EstadoVenta = "presupuestado"
	EstadoRechazado     EstadoVenta = "rechazado"
	EstadoAceptado      EstadoVenta = "aceptado"
	EstadoEntregado     EstadoVenta = "entregado"
	EstadoFacturado     EstadoVenta = "facturado"
	EstadoPagado        EstadoVenta = "pagado"
)

// rangos totally orders the lifecycle. Avanzar only ever moves up this
// scale, so issuing an albaran over an already invoiced venta can never
// drag the estado backwards. rechazado sits between presupuestado and
// aceptado: a rejected quote can still be accepted or invoiced later by
// explicit user action, but never returns to presupuestado.
var rangos = map[EstadoVenta]int{
	EstadoBorrador:      0,
	EstadoPresupuestado: 10,
	EstadoRechazado:     15,
	EstadoAceptado:      20,
	EstadoEntregado:     30,
	EstadoFacturado:     40,
	EstadoPagado:        50,
}

// Rango returns the position of e in the lifecycle order, -1 for unknown states.
func (e EstadoVenta) Rango() int {
	r, ok := rangos[e]
	if !ok {
		return -1
	}
	return r
}

func (e EstadoVenta) EsValido() bool {
	_, ok := rangos[e]
	return ok
}

// ParseEstado validates a raw estado string coming from a query or request.
func ParseEstado(s string) (EstadoVenta, bool) {
	e := EstadoVenta(s)
	return e, e.EsValido()
}
