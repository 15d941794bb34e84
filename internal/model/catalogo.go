package model

// Catálogos fijos que la interfaz ofrece en sus desplegables. No viven en
// la base de datos: son parte del producto, no datos del usuario.
var (
	// Unidades in which an item quantity can be expressed.
	Unidades = []string{"unidad", "hora", "servicio", "día", "mes", "kg", "m²", "proyecto"}

	// MetodosPago accepted on facturas. "Transferencia bancaria" triggers
	// printing the emisor IBAN on the document.
	MetodosPago = []string{
		"Transferencia bancaria",
		"Efectivo",
		"Tarjeta",
		"PayPal",
		"Domiciliación bancaria",
		"Otro",
	}

	// TiposIVA are the Spanish VAT rates offered by default.
	TiposIVA = []float64{0, 4, 10, 21}
)
