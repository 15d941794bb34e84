package dto

// ClienteRequest is the client block of a venta and the body of
// PUT /v1/clientes. Nombre and NIF are the legal minimum for any document.
type ClienteRequest struct {
	Nombre       string `json:"nombre"        validate:"required,min=2"`
	NIF          string `json:"nif"           validate:"required,min=3"`
	Direccion    string `json:"direccion"     validate:"omitempty,max=200"`
	CodigoPostal string `json:"codigo_postal" validate:"omitempty,max=10"`
	Ciudad       string `json:"ciudad"        validate:"omitempty,max=100"`
	Provincia    string `json:"provincia"     validate:"omitempty,max=100"`
	Email        string `json:"email"         validate:"omitempty,email"`
	Telefono     string `json:"telefono"      validate:"omitempty,max=30"`
}

type ClienteResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	NIF          string `json:"nif"`
	Direccion    string `json:"direccion"`
	CodigoPostal string `json:"codigo_postal"`
	Ciudad       string `json:"ciudad"`
	Provincia    string `json:"provincia"`
	Email        string `json:"email"`
	Telefono     string `json:"telefono"`
	CreatedAt    string `json:"created_at"`
}

// ClienteVentaResponse is the frozen snapshot as stored on the venta. It has
// no ID on purpose: it is document data, not a reference to the master row.
type ClienteVentaResponse struct {
	Nombre       string `json:"nombre"`
	NIF          string `json:"nif"`
	Direccion    string `json:"direccion"`
	CodigoPostal string `json:"codigo_postal"`
	Ciudad       string `json:"ciudad"`
	Provincia    string `json:"provincia"`
}
