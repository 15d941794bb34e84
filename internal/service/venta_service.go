package service

import (
	"context"
	"errors"
	"os"

	"github.com/jpm92/simple-fact/internal/calculo"
	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"
	"github.com/jpm92/simple-fact/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	CrearVenta(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ActualizarVenta(ctx context.Context, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	PendientesFacturar(ctx context.Context) ([]dto.VentaListItem, error)
	EliminarVenta(ctx context.Context, id uuid.UUID) (*dto.VentaEliminadaResponse, error)
}

type ventaService struct {
	repo        repository.VentaRepository
	clienteRepo repository.ClienteRepository
	cfg         *config.Config
}

func NewVentaService(
	repo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	cfg *config.Config,
) VentaService {
	return &ventaService{repo: repo, clienteRepo: clienteRepo, cfg: cfg}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CrearVenta ────────────────────────────────────────────────────────────────
//   1. Resolve per-line defaults (unidad, IVA) and the IRPF percentage
//   2. Calculate totals outside the TX
//   3. BEGIN TX: upsert cliente by NIF, freeze its snapshot, create venta+items
//   4. COMMIT

func (s *ventaService) CrearVenta(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	lineas, items := s.construirItems(req.Items)
	irpf := s.irpfODefecto(req.IRPFPorcentaje)
	totales := calculo.Calcular(lineas, irpf)

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		cliente, err := s.clienteRepo.UpsertByNIF(ctx, tx, clienteFromRequest(req.Cliente))
		if err != nil {
			return err
		}

		venta = model.Venta{
			ClienteID:      cliente.ID,
			Cliente:        cliente.Snapshot(),
			BaseImponible:  totales.BaseImponible,
			TotalIVA:       totales.TotalIVA,
			IRPFPorcentaje: totales.IRPFPorcentaje,
			TotalIRPF:      totales.TotalIRPF,
			Total:          totales.Total,
			MetodoPago:     req.MetodoPago,
			Notas:          req.Notas,
			Estado:         model.EstadoBorrador,
			Items:          items,
		}
		return s.repo.Create(ctx, tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return ventaToResponse(&venta), nil
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.buscarVenta(ctx, id)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(venta), nil
}

// ── ActualizarVenta ───────────────────────────────────────────────────────────
// Replaces items and editable fields, recalculating the totals. A venta with
// factura is immutable: the printed document must keep matching the store.

func (s *ventaService) ActualizarVenta(ctx context.Context, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error) {
	venta, err := s.buscarVenta(ctx, id)
	if err != nil {
		return nil, err
	}
	if venta.Documento(model.TipoFactura) != nil {
		return nil, ErrVentaFacturada
	}

	lineas, items := s.construirItems(req.Items)
	irpf := s.irpfODefecto(req.IRPFPorcentaje)
	totales := calculo.Calcular(lineas, irpf)

	venta.Items = items
	venta.BaseImponible = totales.BaseImponible
	venta.TotalIVA = totales.TotalIVA
	venta.IRPFPorcentaje = totales.IRPFPorcentaje
	venta.TotalIRPF = totales.TotalIRPF
	venta.Total = totales.Total
	venta.MetodoPago = req.MetodoPago
	venta.Notas = req.Notas

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReplaceItems(ctx, tx, venta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return ventaToResponse(venta), nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────
// Direct user transitions, independent of document issuance. Avanzar keeps
// them monotonic; "rechazada" only applies to a presupuesto awaiting answer.

func (s *ventaService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.VentaResponse, error) {
	venta, err := s.buscarVenta(ctx, id)
	if err != nil {
		return nil, err
	}

	var objetivo model.EstadoVenta
	switch req.Estado {
	case "aceptada":
		objetivo = model.EstadoAceptado
	case "pagada":
		objetivo = model.EstadoPagado
	case "rechazada":
		if venta.Estado != model.EstadoPresupuestado {
			return nil, ErrEstadoInvalido
		}
		objetivo = model.EstadoRechazado
	default:
		return nil, ErrEstadoInvalido
	}

	if venta.Avanzar(objetivo) {
		if err := s.repo.UpdateEstado(ctx, nil, venta.ID, venta.Estado); err != nil {
			return nil, err
		}
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado != "" && filter.Estado != "all" {
		if _, ok := model.ParseEstado(filter.Estado); !ok {
			return nil, ErrEstadoInvalido
		}
	}

	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaListItem, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToListItem(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// PendientesFacturar lists the ventas with documents in flight and no
// factura yet, for the "pendientes de facturar" panel of the shell.
func (s *ventaService) PendientesFacturar(ctx context.Context) ([]dto.VentaListItem, error) {
	ventas, err := s.repo.PendientesFacturar(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaListItem, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToListItem(&ventas[i]))
	}
	return items, nil
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────
// The row goes first, files second: a venta must never survive because some
// PDF was open in a viewer. Paths that resist deletion are only reported.

func (s *ventaService) EliminarVenta(ctx context.Context, id uuid.UUID) (*dto.VentaEliminadaResponse, error) {
	rutas, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}

	resp := &dto.VentaEliminadaResponse{ID: id.String(), ArchivosEliminados: []string{}}
	for _, ruta := range rutas {
		if err := os.Remove(ruta); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("ruta", ruta).Msg("no se pudo borrar el PDF de la venta eliminada")
			resp.ArchivosConError = append(resp.ArchivosConError, ruta)
			continue
		}
		resp.ArchivosEliminados = append(resp.ArchivosEliminados, ruta)
	}
	return resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) buscarVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return venta, nil
}

// construirItems resolves the form defaults and returns both the calc lines
// and the rows to persist, in the order the user wrote them.
func (s *ventaService) construirItems(reqItems []dto.ItemVentaRequest) ([]calculo.Linea, []model.VentaItem) {
	ivaDefecto := decimal.NewFromFloat(s.cfg.IVAPorDefecto)
	lineas := make([]calculo.Linea, 0, len(reqItems))
	items := make([]model.VentaItem, 0, len(reqItems))

	for i, it := range reqItems {
		iva := ivaDefecto
		if it.IVAPorcentaje != nil {
			iva = *it.IVAPorcentaje
		}
		unidad := it.Unidad
		if unidad == "" {
			unidad = "unidad"
		}
		lineas = append(lineas, calculo.Linea{
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			IVAPorcentaje:  iva,
		})
		items = append(items, model.VentaItem{
			Orden:          i,
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			Unidad:         unidad,
			PrecioUnitario: it.PrecioUnitario,
			IVAPorcentaje:  iva,
			Subtotal:       calculo.Subtotal(it.Cantidad, it.PrecioUnitario),
		})
	}
	return lineas, items
}

func (s *ventaService) irpfODefecto(p *decimal.Decimal) decimal.Decimal {
	if p != nil {
		return *p
	}
	return decimal.NewFromFloat(s.cfg.IRPFPorDefecto)
}

func clienteFromRequest(req dto.ClienteRequest) *model.Cliente {
	return &model.Cliente{
		Nombre:       req.Nombre,
		NIF:          req.NIF,
		Direccion:    req.Direccion,
		CodigoPostal: req.CodigoPostal,
		Ciudad:       req.Ciudad,
		Provincia:    req.Provincia,
		Email:        req.Email,
		Telefono:     req.Telefono,
	}
}

func lineasDeVenta(v *model.Venta) []calculo.Linea {
	lineas := make([]calculo.Linea, 0, len(v.Items))
	for _, it := range v.Items {
		lineas = append(lineas, calculo.Linea{
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			IVAPorcentaje:  it.IVAPorcentaje,
		})
	}
	return lineas
}

func documentosToRefs(docs []model.DocumentoVenta) []dto.DocumentoRef {
	refs := make([]dto.DocumentoRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, dto.DocumentoRef{Tipo: string(d.Tipo), Numero: d.Numero})
	}
	return refs
}

func ventaToListItem(v *model.Venta) *dto.VentaListItem {
	return &dto.VentaListItem{
		ID:            v.ID.String(),
		ClienteNombre: v.Cliente.Nombre,
		ClienteNIF:    v.Cliente.NIF,
		Total:         v.Total.Round(2),
		Estado:        string(v.Estado),
		Documentos:    documentosToRefs(v.Documentos),
		CreatedAt:     v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ventaToResponse rounds every amount to two decimals at this boundary; the
// stored values stay exact. The desglose is recomputed from the lines, so
// the response can never show a breakdown that disagrees with the items.
func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			Unidad:         it.Unidad,
			PrecioUnitario: it.PrecioUnitario,
			IVAPorcentaje:  it.IVAPorcentaje,
			Subtotal:       it.Subtotal.Round(2),
		})
	}

	totales := calculo.Calcular(lineasDeVenta(v), v.IRPFPorcentaje)
	desglose := make([]dto.DesgloseIVAResponse, 0, len(totales.Desglose))
	for _, tramo := range totales.Desglose {
		desglose = append(desglose, dto.DesgloseIVAResponse{
			Porcentaje: tramo.Porcentaje,
			Base:       tramo.Base.Round(2),
			Cuota:      tramo.Cuota.Round(2),
		})
	}

	return &dto.VentaResponse{
		ID: v.ID.String(),
		Cliente: dto.ClienteVentaResponse{
			Nombre:       v.Cliente.Nombre,
			NIF:          v.Cliente.NIF,
			Direccion:    v.Cliente.Direccion,
			CodigoPostal: v.Cliente.CodigoPostal,
			Ciudad:       v.Cliente.Ciudad,
			Provincia:    v.Cliente.Provincia,
		},
		Items:          items,
		BaseImponible:  v.BaseImponible.Round(2),
		TotalIVA:       v.TotalIVA.Round(2),
		IRPFPorcentaje: v.IRPFPorcentaje,
		TotalIRPF:      v.TotalIRPF.Round(2),
		Total:          v.Total.Round(2),
		DesgloseIVA:    desglose,
		MetodoPago:     v.MetodoPago,
		Notas:          v.Notas,
		Estado:         string(v.Estado),
		Documentos:     documentosToRefs(v.Documentos),
		CreatedAt:      v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
