package handler

import (
	"errors"
	"net/http"

	"github.com/jpm92/simple-fact/internal/apierror"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"
	"github.com/jpm92/simple-fact/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientesHandler works straight on the repository: the cliente master has
// no rules of its own, the interesting logic lives in the venta snapshot.
type ClientesHandler struct{ repo repository.ClienteRepository }

func NewClientesHandler(repo repository.ClienteRepository) *ClientesHandler {
	return &ClientesHandler{repo: repo}
}

// Listar godoc
// @Summary      Listar clientes
// @Description  Lista el maestro de clientes, filtrable por nombre, NIF o ciudad.
// @Tags         clientes
// @Produce      json
// @Param        q query string false "Busqueda"
// @Success      200 {array} dto.ClienteResponse
// @Router       /v1/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	clientes, err := h.repo.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, clienteToResponse(&clientes[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Obtener godoc
// @Summary      Detalle de un cliente
// @Tags         clientes
// @Produce      json
// @Param        id path string true "UUID del cliente"
// @Success      200 {object} dto.ClienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clientes/{id} [get]
func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	cliente, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("cliente no encontrado"))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienteToResponse(cliente))
}

// Guardar godoc
// @Summary      Crear o actualizar un cliente
// @Description  Upsert por NIF: si el NIF ya existe se actualiza la ficha conservando su ID. Los snapshots de ventas anteriores no cambian.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        body body dto.ClienteRequest true "Ficha del cliente"
// @Success      200  {object} dto.ClienteResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/clientes [put]
func (h *ClientesHandler) Guardar(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.repo.UpsertByNIF(c.Request.Context(), nil, &model.Cliente{
		Nombre:       req.Nombre,
		NIF:          req.NIF,
		Direccion:    req.Direccion,
		CodigoPostal: req.CodigoPostal,
		Ciudad:       req.Ciudad,
		Provincia:    req.Provincia,
		Email:        req.Email,
		Telefono:     req.Telefono,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienteToResponse(cliente))
}

func clienteToResponse(m *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:           m.ID.String(),
		Nombre:       m.Nombre,
		NIF:          m.NIF,
		Direccion:    m.Direccion,
		CodigoPostal: m.CodigoPostal,
		Ciudad:       m.Ciudad,
		Provincia:    m.Provincia,
		Email:        m.Email,
		Telefono:     m.Telefono,
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
