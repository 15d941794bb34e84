package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jpm92/simple-fact/internal/calculo"
	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/infra"
	"github.com/jpm92/simple-fact/internal/model"
	"github.com/jpm92/simple-fact/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Renderer is the PDF side of issuing. infra.PDFGenerator is the real
// implementation; unit tests plug in a stub.
type Renderer interface {
	GenerarDocumento(datos *infra.DatosDocumento, ruta string) error
	RutaDocumento(tipo model.TipoDocumento, numero string) string
}

type EmisionService interface {
	EmitirDocumento(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento, req dto.EmitirDocumentoRequest) (*dto.DocumentoResponse, error)
	RutaPDF(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento) (*dto.RutaPDFResponse, error)
}

type emisionService struct {
	ventas repository.VentaRepository
	docs   repository.DocumentoRepository
	series repository.SerieRepository
	render Renderer
	cfg    *config.Config
	ahora  func() time.Time // swapped in tests to pin the year
}

func NewEmisionService(
	ventas repository.VentaRepository,
	docs repository.DocumentoRepository,
	series repository.SerieRepository,
	render Renderer,
	cfg *config.Config,
) EmisionService {
	return &emisionService{
		ventas: ventas,
		docs:   docs,
		series: series,
		render: render,
		cfg:    cfg,
		ahora:  time.Now,
	}
}

// ── EmitirDocumento ───────────────────────────────────────────────────────────
// The commit wins over the render:
//   1. Validate venta, items, emisor and the confirmation gates
//   2. Reuse the already issued document of this tipo, if any
//   3. Otherwise BEGIN TX: mint numero, insert documento, advance estado; COMMIT
//   4. Render the PDF and record its path
//
// A render failure after step 3 leaves a numbered document without file;
// issuing the same tipo again re-renders under the original numero, so a
// crash here costs a retry, never a number.

func (s *emisionService) EmitirDocumento(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento, req dto.EmitirDocumentoRequest) (*dto.DocumentoResponse, error) {
	if !tipo.EsValido() {
		return nil, ErrTipoDocumentoInvalido
	}
	venta, err := s.buscarVenta(ctx, ventaID)
	if err != nil {
		return nil, err
	}

	// 1. Everything that can fail does so before touching the counter.
	if len(venta.Items) == 0 {
		return nil, ErrSinItems
	}
	if s.cfg.Emisor.Nombre == "" || s.cfg.Emisor.NIF == "" {
		return nil, ErrEmisorIncompleto
	}
	if venta.Cliente.Nombre == "" || venta.Cliente.NIF == "" {
		return nil, ErrClienteIncompleto
	}
	if venta.Estado == model.EstadoRechazado && s.cfg.RechazoBloqueaEmision {
		return nil, ErrVentaRechazada
	}

	// Confirmation gates. Moving past a presupuesto that was never answered
	// needs an explicit yes; so does invoicing a venta with no prior
	// document at all.
	pendienteDeAceptar := venta.Estado == model.EstadoPresupuestado && tipo != model.TipoPresupuesto
	if pendienteDeAceptar && !req.ConfirmarAceptacion {
		return nil, ErrRequiereAceptacion
	}
	if tipo == model.TipoFactura && venta.Estado == model.EstadoBorrador && !req.Confirmar {
		return nil, ErrRequiereConfirmacion
	}

	// 2. Re-issue: the numero and fecha are immutable once minted.
	doc := venta.Documento(tipo)
	reutilizado := doc != nil

	// 3. First issue: one transaction covers numero, documento and estado.
	if doc == nil {
		emision := s.ahora()
		serie := s.cfg.SeriePara(string(tipo))

		txErr := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
			num, err := s.series.NextNumero(ctx, tx, tipo, serie, emision.Year())
			if err != nil {
				return fmt.Errorf("numerar %s: %w", tipo, err)
			}

			nuevo := &model.DocumentoVenta{
				VentaID:      venta.ID,
				Tipo:         tipo,
				Numero:       model.FormatearNumero(tipo, serie, emision.Year(), num),
				FechaEmision: emision,
			}
			if tipo == model.TipoPresupuesto {
				validez := emision.AddDate(0, 0, s.cfg.DiasValidezPresupuesto)
				nuevo.FechaValidez = &validez
			}
			if err := s.docs.Create(ctx, tx, nuevo); err != nil {
				return err
			}

			// Accepting on the way through is part of the same commit.
			if pendienteDeAceptar {
				venta.Avanzar(model.EstadoAceptado)
			}
			if venta.Avanzar(estadoTrasEmision(tipo)) || pendienteDeAceptar {
				if err := s.ventas.UpdateEstado(ctx, tx, venta.ID, venta.Estado); err != nil {
					return err
				}
			}

			doc = nuevo
			return nil
		})
		if txErr != nil {
			return nil, txErr
		}
	}

	// 4. Render outside the transaction and remember where the file went.
	ruta := s.render.RutaDocumento(doc.Tipo, doc.Numero)
	if err := s.render.GenerarDocumento(s.construirDatos(venta, doc), ruta); err != nil {
		log.Error().Err(err).Str("numero", doc.Numero).Msg("falló el render del PDF; el documento queda emitido sin fichero")
		return nil, fmt.Errorf("%w: %v", ErrRenderPDF, err)
	}
	if err := s.docs.UpdateRutaPDF(ctx, doc.ID, ruta); err != nil {
		return nil, err
	}
	doc.RutaPDF = &ruta

	return documentoToResponse(doc, reutilizado, venta.Estado), nil
}

// RutaPDF answers where the already issued document lives on disk, without
// rendering anything.
func (s *emisionService) RutaPDF(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento) (*dto.RutaPDFResponse, error) {
	if !tipo.EsValido() {
		return nil, ErrTipoDocumentoInvalido
	}
	venta, err := s.buscarVenta(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	doc := venta.Documento(tipo)
	if doc == nil {
		return nil, ErrDocumentoNoEmitido
	}

	resp := &dto.RutaPDFResponse{Tipo: string(tipo), Numero: doc.Numero}
	if doc.RutaPDF != nil && *doc.RutaPDF != "" {
		resp.Ruta = *doc.RutaPDF
		if _, err := os.Stat(resp.Ruta); err == nil {
			resp.Existe = true
		}
	}
	return resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *emisionService) buscarVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	venta, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return venta, nil
}

// estadoTrasEmision maps each document tipo to the estado it certifies.
func estadoTrasEmision(t model.TipoDocumento) model.EstadoVenta {
	switch t {
	case model.TipoPresupuesto:
		return model.EstadoPresupuestado
	case model.TipoAlbaran:
		return model.EstadoEntregado
	default:
		return model.EstadoFacturado
	}
}

// construirDatos assembles the full render payload from the venta, the
// issued document and the configured emisor.
func (s *emisionService) construirDatos(v *model.Venta, doc *model.DocumentoVenta) *infra.DatosDocumento {
	items := make([]infra.ItemDocumento, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, infra.ItemDocumento{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			Unidad:         it.Unidad,
			PrecioUnitario: it.PrecioUnitario,
			IVAPorcentaje:  it.IVAPorcentaje,
			Subtotal:       it.Subtotal,
		})
	}
	return &infra.DatosDocumento{
		Tipo:            doc.Tipo,
		Numero:          doc.Numero,
		FechaEmision:    doc.FechaEmision,
		FechaValidez:    doc.FechaValidez,
		Emisor:          s.cfg.Emisor,
		Cliente:         v.Cliente,
		Items:           items,
		Totales:         calculo.Calcular(lineasDeVenta(v), v.IRPFPorcentaje),
		MetodoPago:      v.MetodoPago,
		Notas:           v.Notas,
		DocumentoOrigen: origenDe(v, doc.Tipo),
	}
}

// origenDe names the upstream document printed as "Origen:". A factura
// prefers the albaran, falling back to the presupuesto; an albaran points
// at its presupuesto. Presupuestos have no origin.
func origenDe(v *model.Venta, tipo model.TipoDocumento) string {
	switch tipo {
	case model.TipoAlbaran:
		if p := v.Documento(model.TipoPresupuesto); p != nil {
			return p.Numero
		}
	case model.TipoFactura:
		if a := v.Documento(model.TipoAlbaran); a != nil {
			return a.Numero
		}
		if p := v.Documento(model.TipoPresupuesto); p != nil {
			return p.Numero
		}
	}
	return ""
}

func documentoToResponse(d *model.DocumentoVenta, reutilizado bool, estado model.EstadoVenta) *dto.DocumentoResponse {
	resp := &dto.DocumentoResponse{
		Tipo:         string(d.Tipo),
		Numero:       d.Numero,
		FechaEmision: d.FechaEmision.Format("2006-01-02"),
		Reutilizado:  reutilizado,
		EstadoVenta:  string(estado),
	}
	if d.FechaValidez != nil {
		validez := d.FechaValidez.Format("2006-01-02")
		resp.FechaValidez = &validez
	}
	if d.RutaPDF != nil {
		resp.RutaPDF = *d.RutaPDF
	}
	return resp
}
