package handler

import (
	"net/http"

	"github.com/jpm92/simple-fact/internal/apierror"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Crear godoc
// @Summary      Crear una venta
// @Description  Crea una venta en borrador con sus conceptos; el cliente se crea o actualiza por NIF y queda congelado como snapshot.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearVentaRequest true "Cliente y conceptos"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearVenta(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Description  Lista paginada, filtrable por estado y por texto de cliente (nombre o NIF).
// @Tags         ventas
// @Produce      json
// @Param        estado query string false "borrador | presupuestado | ... | all"
// @Param        q      query string false "Busqueda por cliente"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PendientesFacturar godoc
// @Summary      Ventas pendientes de facturar
// @Description  Ventas con presupuesto o albarán emitido que aún no tienen factura.
// @Tags         ventas
// @Produce      json
// @Success      200 {array} dto.VentaListItem
// @Router       /v1/ventas/pendientes-facturar [get]
func (h *VentasHandler) PendientesFacturar(c *gin.Context) {
	items, err := h.svc.PendientesFacturar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Obtener godoc
// @Summary      Detalle de una venta
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar una venta
// @Description  Reemplaza conceptos y campos editables recalculando totales. Una venta con factura emitida es inmutable.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string                     true "UUID de la venta"
// @Param        body body dto.ActualizarVentaRequest true "Conceptos y campos editables"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [put]
func (h *VentasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarVenta(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar el estado de una venta
// @Description  Transiciones manuales: aceptada, pagada o rechazada. El estado solo avanza, nunca retrocede.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "UUID de la venta"
// @Param        body body dto.CambiarEstadoRequest true "Estado destino"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id}/estado [post]
func (h *VentasHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar una venta
// @Description  Borra la venta con sus conceptos y documentos, y después sus PDFs. Devuelve qué ficheros se eliminaron.
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaEliminadaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.EliminarVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
