package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"
	"github.com/jpm92/simple-fact/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubVentaRepo is an in-memory VentaRepository for testing.
type stubVentaRepo struct {
	ventas         map[uuid.UUID]*model.Venta
	actualizaciones int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	r.actualizaciones++
	return nil
}

func (r *stubVentaRepo) ReplaceItems(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) PendientesFacturar(_ context.Context) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		switch v.Estado {
		case model.EstadoPresupuestado, model.EstadoAceptado, model.EstadoEntregado:
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) Delete(_ context.Context, id uuid.UUID) ([]string, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var rutas []string
	for _, d := range v.Documentos {
		if d.RutaPDF != nil && *d.RutaPDF != "" {
			rutas = append(rutas, *d.RutaPDF)
		}
	}
	delete(r.ventas, id)
	return rutas, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubClienteRepo keeps clientes keyed by NIF, like the unique index does.
type stubClienteRepo struct {
	clientes map[string]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[string]*model.Cliente)}
}

func (r *stubClienteRepo) UpsertByNIF(_ context.Context, _ *gorm.DB, c *model.Cliente) (*model.Cliente, error) {
	if existente, ok := r.clientes[c.NIF]; ok {
		existente.Nombre = c.Nombre
		existente.Direccion = c.Direccion
		existente.CodigoPostal = c.CodigoPostal
		existente.Ciudad = c.Ciudad
		existente.Provincia = c.Provincia
		existente.Email = c.Email
		existente.Telefono = c.Telefono
		return existente, nil
	}
	c.ID = uuid.New()
	r.clientes[c.NIF] = c
	return c, nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClienteRepo) FindByNIF(_ context.Context, nif string) (*model.Cliente, error) {
	c, ok := r.clientes[nif]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ string) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Fixtures ──────────────────────────────────────────────────────────────────

func cfgPrueba() *config.Config {
	return &config.Config{
		Emisor: config.Emisor{
			Nombre: "Talleres García S.L.",
			NIF:    "B12345678",
			IBAN:   "ES91 2100 0418 4502 0005 1332",
		},
		SerieFactura:           "A",
		SeriePresupuesto:       "PP",
		SerieAlbaran:           "AL",
		IVAPorDefecto:          21,
		IRPFPorDefecto:         0,
		DiasValidezPresupuesto: 30,
		RechazoBloqueaEmision:  true,
	}
}

func buildVentaSvc() (VentaService, *stubVentaRepo, *stubClienteRepo) {
	ventaRepo := newStubVentaRepo()
	clienteRepo := newStubClienteRepo()
	svc := NewVentaService(ventaRepo, clienteRepo, cfgPrueba())
	return svc, ventaRepo, clienteRepo
}

func reqVentaPrueba() dto.CrearVentaRequest {
	iva := decimal.NewFromInt(21)
	irpf := decimal.NewFromInt(15)
	return dto.CrearVentaRequest{
		Cliente: dto.ClienteRequest{
			Nombre: "Construcciones Pérez",
			NIF:    "B87654321",
			Ciudad: "Sevilla",
		},
		Items: []dto.ItemVentaRequest{{
			Descripcion:    "Instalación eléctrica",
			Cantidad:       decimal.NewFromInt(10),
			Unidad:         "hora",
			PrecioUnitario: decimal.NewFromInt(50),
			IVAPorcentaje:  &iva,
		}},
		MetodoPago:     "Transferencia bancaria",
		IRPFPorcentaje: &irpf,
		Notas:          "Pago a 30 días.",
	}
}

// ── CrearVenta ────────────────────────────────────────────────────────────────

func TestCrearVenta_CalculaTotales(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	// base = 10 × 50 = 500; IVA 21% = 105; IRPF 15% = 75; total = 530
	resp, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)

	assert.Equal(t, "500", resp.BaseImponible.String())
	assert.Equal(t, "105", resp.TotalIVA.String())
	assert.Equal(t, "75", resp.TotalIRPF.String())
	assert.Equal(t, "530", resp.Total.String())
	assert.Equal(t, "borrador", resp.Estado)
	assert.Equal(t, "Construcciones Pérez", resp.Cliente.Nombre)
	assert.Equal(t, "B87654321", resp.Cliente.NIF)
	require.Len(t, resp.DesgloseIVA, 1)
	assert.Equal(t, "21", resp.DesgloseIVA[0].Porcentaje.String())
	assert.Equal(t, "105", resp.DesgloseIVA[0].Cuota.String())
}

func TestCrearVenta_AplicaDefectosDeFormulario(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	// Sin unidad, sin IVA por linea y sin IRPF: rigen los de configuracion.
	resp, err := svc.CrearVenta(context.Background(), dto.CrearVentaRequest{
		Cliente: dto.ClienteRequest{Nombre: "Construcciones Pérez", NIF: "B87654321"},
		Items: []dto.ItemVentaRequest{{
			Descripcion:    "Material",
			Cantidad:       decimal.NewFromInt(2),
			PrecioUnitario: decimal.NewFromInt(100),
		}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "unidad", resp.Items[0].Unidad)
	assert.Equal(t, "21", resp.Items[0].IVAPorcentaje.String())
	assert.Equal(t, "0", resp.TotalIRPF.String())
	assert.Equal(t, "242", resp.Total.String())
}

func TestCrearVenta_SinItems(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	// Un borrador vacio es legitimo; emitir ya exigira lineas.
	resp, err := svc.CrearVenta(context.Background(), dto.CrearVentaRequest{
		Cliente: dto.ClienteRequest{Nombre: "Construcciones Pérez", NIF: "B87654321"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "0", resp.Total.String())
}

func TestCrearVenta_ReutilizaClientePorNIF(t *testing.T) {
	svc, _, clienteRepo := buildVentaSvc()

	resp1, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)

	req2 := reqVentaPrueba()
	req2.Cliente.Nombre = "Construcciones Pérez S.L."
	resp2, err := svc.CrearVenta(context.Background(), req2)
	require.NoError(t, err)

	assert.Len(t, clienteRepo.clientes, 1)
	assert.Equal(t, "Construcciones Pérez S.L.", clienteRepo.clientes["B87654321"].Nombre)

	// Cada venta congela el cliente tal como era al crearla.
	assert.Equal(t, "Construcciones Pérez", resp1.Cliente.Nombre)
	assert.Equal(t, "Construcciones Pérez S.L.", resp2.Cliente.Nombre)
}

func TestObtenerVenta_NoExiste(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	_, err := svc.ObtenerVenta(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrVentaNoEncontrada)
}

// ── ActualizarVenta ───────────────────────────────────────────────────────────

func TestActualizarVenta_Recalcula(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)

	iva := decimal.NewFromInt(10)
	resp, err := svc.ActualizarVenta(context.Background(), uuid.MustParse(creada.ID), dto.ActualizarVentaRequest{
		Items: []dto.ItemVentaRequest{{
			Descripcion:    "Mano de obra",
			Cantidad:       decimal.NewFromInt(4),
			Unidad:         "hora",
			PrecioUnitario: decimal.NewFromInt(25),
			IVAPorcentaje:  &iva,
		}},
		MetodoPago: "Efectivo",
		Notas:      "Revisado",
	})
	require.NoError(t, err)

	// base = 4 × 25 = 100; IVA 10% = 10; sin IRPF
	assert.Equal(t, "100", resp.BaseImponible.String())
	assert.Equal(t, "110", resp.Total.String())
	assert.Equal(t, "Efectivo", resp.MetodoPago)
	assert.Equal(t, "Revisado", resp.Notas)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Mano de obra", resp.Items[0].Descripcion)
}

func TestActualizarVenta_FacturadaEsInmutable(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()

	creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)

	id := uuid.MustParse(creada.ID)
	ventaRepo.ventas[id].Documentos = []model.DocumentoVenta{
		{ID: uuid.New(), VentaID: id, Tipo: model.TipoFactura, Numero: "A-2025-0001"},
	}

	_, err = svc.ActualizarVenta(context.Background(), id, dto.ActualizarVentaRequest{})
	assert.ErrorIs(t, err, ErrVentaFacturada)
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────

func TestCambiarEstado_Transiciones(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()

	creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)
	id := uuid.MustParse(creada.ID)
	ventaRepo.ventas[id].Estado = model.EstadoPresupuestado

	resp, err := svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: "aceptada"})
	require.NoError(t, err)
	assert.Equal(t, "aceptado", resp.Estado)

	ventaRepo.ventas[id].Estado = model.EstadoFacturado
	resp, err = svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: "pagada"})
	require.NoError(t, err)
	assert.Equal(t, "pagado", resp.Estado)
}

func TestCambiarEstado_RechazadaSoloDesdePresupuestado(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()

	creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)
	id := uuid.MustParse(creada.ID)

	// borrador: no hay presupuesto que rechazar
	_, err = svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: "rechazada"})
	assert.ErrorIs(t, err, ErrEstadoInvalido)

	ventaRepo.ventas[id].Estado = model.EstadoPresupuestado
	resp, err := svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: "rechazada"})
	require.NoError(t, err)
	assert.Equal(t, "rechazado", resp.Estado)
}

func TestCambiarEstado_NoRetrocede(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()

	creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)
	id := uuid.MustParse(creada.ID)
	ventaRepo.ventas[id].Estado = model.EstadoEntregado

	resp, err := svc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: "aceptada"})
	require.NoError(t, err)
	assert.Equal(t, "entregado", resp.Estado)
	assert.Zero(t, ventaRepo.actualizaciones)
}

// ── Listados ──────────────────────────────────────────────────────────────────

func TestListVentas(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	_, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
	require.NoError(t, err)

	_, err = svc.ListVentas(context.Background(), dto.VentaFilter{Estado: "inventado"})
	assert.ErrorIs(t, err, ErrEstadoInvalido)

	resp, err := svc.ListVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Construcciones Pérez", resp.Data[0].ClienteNombre)
}

func TestPendientesFacturar(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()

	for _, estado := range []model.EstadoVenta{model.EstadoBorrador, model.EstadoPresupuestado, model.EstadoFacturado} {
		creada, err := svc.CrearVenta(context.Background(), reqVentaPrueba())
		require.NoError(t, err)
		ventaRepo.ventas[uuid.MustParse(creada.ID)].Estado = estado
	}

	items, err := svc.PendientesFacturar(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "presupuestado", items[0].Estado)
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────

func TestEliminarVenta_BorraFicheros(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()
	dir := t.TempDir()

	existente := filepath.Join(dir, "Factura_A-2025-0001.pdf")
	require.NoError(t, os.WriteFile(existente, []byte("pdf"), 0644))
	desaparecido := filepath.Join(dir, "Presupuesto_PP-2025-0001.pdf")

	id := uuid.New()
	ventaRepo.ventas[id] = &model.Venta{
		ID: id,
		Documentos: []model.DocumentoVenta{
			{ID: uuid.New(), VentaID: id, Tipo: model.TipoFactura, Numero: "A-2025-0001", RutaPDF: &existente},
			{ID: uuid.New(), VentaID: id, Tipo: model.TipoPresupuesto, Numero: "PP-2025-0001", RutaPDF: &desaparecido},
		},
	}

	resp, err := svc.EliminarVenta(context.Background(), id)
	require.NoError(t, err)

	// El fichero ya borrado a mano cuenta como eliminado igualmente.
	assert.ElementsMatch(t, []string{existente, desaparecido}, resp.ArchivosEliminados)
	assert.Empty(t, resp.ArchivosConError)
	assert.NoFileExists(t, existente)
	assert.Empty(t, ventaRepo.ventas)
}

func TestEliminarVenta_FicheroResistente(t *testing.T) {
	svc, ventaRepo, _ := buildVentaSvc()
	dir := t.TempDir()

	// Un directorio con contenido en lugar del PDF hace fallar os.Remove.
	resistente := filepath.Join(dir, "Factura_A-2025-0002.pdf")
	require.NoError(t, os.MkdirAll(filepath.Join(resistente, "dentro"), 0755))

	id := uuid.New()
	ventaRepo.ventas[id] = &model.Venta{
		ID: id,
		Documentos: []model.DocumentoVenta{
			{ID: uuid.New(), VentaID: id, Tipo: model.TipoFactura, Numero: "A-2025-0002", RutaPDF: &resistente},
		},
	}

	resp, err := svc.EliminarVenta(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, resp.ArchivosEliminados)
	assert.Equal(t, []string{resistente}, resp.ArchivosConError)
	assert.Empty(t, ventaRepo.ventas)
}

func TestEliminarVenta_NoExiste(t *testing.T) {
	svc, _, _ := buildVentaSvc()

	_, err := svc.EliminarVenta(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrVentaNoEncontrada)
}
