package handler

import (
	"net/http"

	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"

	"github.com/gin-gonic/gin"
)

// CatalogosHandler serves the fixed form choices and the configured emisor.
// Everything here is read-only: editing happens in config.json.
type CatalogosHandler struct{ cfg *config.Config }

func NewCatalogosHandler(cfg *config.Config) *CatalogosHandler { return &CatalogosHandler{cfg: cfg} }

// Catalogos godoc
// @Summary      Catálogos para los formularios
// @Description  Unidades, métodos de pago, tipos de IVA y los valores por defecto configurados, en una sola llamada.
// @Tags         catalogos
// @Produce      json
// @Success      200 {object} dto.CatalogoResponse
// @Router       /v1/catalogos [get]
func (h *CatalogosHandler) Catalogos(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CatalogoResponse{
		Unidades:               model.Unidades,
		MetodosPago:            model.MetodosPago,
		TiposIVA:               model.TiposIVA,
		IVAPorDefecto:          h.cfg.IVAPorDefecto,
		IRPFPorDefecto:         h.cfg.IRPFPorDefecto,
		DiasValidezPresupuesto: h.cfg.DiasValidezPresupuesto,
		SerieFactura:           h.cfg.SerieFactura,
		SeriePresupuesto:       h.cfg.SeriePresupuesto,
		SerieAlbaran:           h.cfg.SerieAlbaran,
	})
}

// Emisor godoc
// @Summary      Datos del emisor
// @Description  La identidad fiscal que se imprime en los documentos, tal como está en config.json.
// @Tags         catalogos
// @Produce      json
// @Success      200 {object} config.Emisor
// @Router       /v1/config/emisor [get]
func (h *CatalogosHandler) Emisor(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Emisor)
}
