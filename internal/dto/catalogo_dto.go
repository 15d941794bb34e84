package dto

// CatalogoResponse bundles the fixed choices and configured defaults the
// desktop shell needs to draw its forms, in a single round trip.
type CatalogoResponse struct {
	Unidades               []string  `json:"unidades"`
	MetodosPago            []string  `json:"metodos_pago"`
	TiposIVA               []float64 `json:"tipos_iva"`
	IVAPorDefecto          float64   `json:"iva_por_defecto"`
	IRPFPorDefecto         float64   `json:"irpf_por_defecto"`
	DiasValidezPresupuesto int       `json:"dias_validez_presupuesto"`
	SerieFactura           string    `json:"serie_factura"`
	SeriePresupuesto       string    `json:"serie_presupuesto"`
	SerieAlbaran           string    `json:"serie_albaran"`
}
