package handler

import (
	"net/http"

	"github.com/jpm92/simple-fact/internal/apierror"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"
	"github.com/jpm92/simple-fact/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentosHandler struct{ svc service.EmisionService }

func NewDocumentosHandler(svc service.EmisionService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc}
}

// Emitir godoc
// @Summary      Emitir un documento de la venta
// @Description  Numera y genera el PDF del presupuesto, albarán o factura. Si el documento ya existía, regenera el PDF conservando número y fecha. Las confirmaciones pendientes responden 409.
// @Tags         documentos
// @Accept       json
// @Produce      json
// @Param        id   path string                      true "UUID de la venta"
// @Param        tipo path string                      true "presupuesto | albaran | factura"
// @Param        body body dto.EmitirDocumentoRequest false "Confirmaciones"
// @Success      201  {object} dto.DocumentoResponse "Primera emisión"
// @Success      200  {object} dto.DocumentoResponse "Reemisión"
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id}/documentos/{tipo} [post]
func (h *DocumentosHandler) Emitir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	tipo, ok := model.ParseTipoDocumento(c.Param("tipo"))
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("tipo de documento desconocido"))
		return
	}

	// El cuerpo es opcional: sin body, ambas confirmaciones quedan en false.
	var req dto.EmitirDocumentoRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.EmitirDocumento(c.Request.Context(), id, tipo, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusCreated
	if resp.Reutilizado {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// RutaPDF godoc
// @Summary      Localizar el PDF de un documento
// @Description  Devuelve la ruta del fichero emitido y si existe en disco, sin regenerarlo.
// @Tags         documentos
// @Produce      json
// @Param        id   path string true "UUID de la venta"
// @Param        tipo path string true "presupuesto | albaran | factura"
// @Success      200  {object} dto.RutaPDFResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id}/documentos/{tipo}/pdf [get]
func (h *DocumentosHandler) RutaPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	tipo, ok := model.ParseTipoDocumento(c.Param("tipo"))
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New("tipo de documento desconocido"))
		return
	}
	resp, err := h.svc.RutaPDF(c.Request.Context(), id, tipo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
