package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/infra"
	"github.com/jpm92/simple-fact/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// abrirDB opens a throwaway sqlite file with the real migration, so these
// tests exercise the same schema, pragmas and constraints as production.
func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func ventaDePrueba(nif string) *model.Venta {
	return &model.Venta{
		Cliente: model.ClienteSnapshot{Nombre: "Obras García SL", NIF: nif},
		Items: []model.VentaItem{
			{Orden: 0, Descripcion: "Reforma baño", Cantidad: decimal.NewFromInt(1),
				Unidad: "proyecto", PrecioUnitario: decimal.NewFromInt(900),
				IVAPorcentaje: decimal.NewFromInt(21), Subtotal: decimal.NewFromInt(900)},
			{Orden: 1, Descripcion: "Pintura", Cantidad: decimal.NewFromInt(4),
				Unidad: "hora", PrecioUnitario: decimal.NewFromInt(25),
				IVAPorcentaje: decimal.NewFromInt(21), Subtotal: decimal.NewFromInt(100)},
		},
		BaseImponible:  decimal.NewFromInt(1000),
		TotalIVA:       decimal.NewFromInt(210),
		IRPFPorcentaje: decimal.Zero,
		TotalIRPF:      decimal.Zero,
		Total:          decimal.NewFromInt(1210),
		Estado:         model.EstadoBorrador,
	}
}

// crearVenta persists a venta with a fresh cliente attached.
func crearVenta(t *testing.T, db *gorm.DB, nif string) *model.Venta {
	t.Helper()
	ctx := context.Background()

	cliente, err := NewClienteRepository(db).UpsertByNIF(ctx, nil, &model.Cliente{Nombre: "Obras García SL", NIF: nif})
	require.NoError(t, err)

	v := ventaDePrueba(nif)
	v.ClienteID = cliente.ID
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return NewVentaRepository(db).Create(ctx, tx, v)
	}))
	return v
}

// ── Series ──────────────────────────────────────────────────────────────

func TestNextNumero_SecuenciaPorClave(t *testing.T) {
	db := abrirDB(t)
	repo := NewSerieRepository(db)
	ctx := context.Background()

	mint := func(tipo model.TipoDocumento, serie string, anio int) int {
		var num int
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			var err error
			num, err = repo.NextNumero(ctx, tx, tipo, serie, anio)
			return err
		}))
		return num
	}

	// Strictly increasing within one key.
	assert.Equal(t, 1, mint(model.TipoFactura, "A", 2025))
	assert.Equal(t, 2, mint(model.TipoFactura, "A", 2025))
	assert.Equal(t, 3, mint(model.TipoFactura, "A", 2025))

	// Each serie counts on its own.
	assert.Equal(t, 1, mint(model.TipoFactura, "B", 2025))

	// Same serie letter under another tipo is still another counter.
	assert.Equal(t, 1, mint(model.TipoPresupuesto, "A", 2025))

	// A new year restarts at 1 without touching the old year.
	assert.Equal(t, 1, mint(model.TipoFactura, "A", 2026))
	assert.Equal(t, 4, mint(model.TipoFactura, "A", 2025))
}

func TestNextNumero_RollbackDevuelveElNumero(t *testing.T) {
	db := abrirDB(t)
	repo := NewSerieRepository(db)
	ctx := context.Background()

	// A transaction that mints and then fails must not consume the number.
	err := db.Transaction(func(tx *gorm.DB) error {
		num, err := repo.NextNumero(ctx, tx, model.TipoFactura, "A", 2025)
		require.NoError(t, err)
		require.Equal(t, 1, num)
		return errors.New("fallo simulado tras numerar")
	})
	require.Error(t, err)

	var num int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		num, err = repo.NextNumero(ctx, tx, model.TipoFactura, "A", 2025)
		return err
	}))
	assert.Equal(t, 1, num, "el número anulado debe reutilizarse, sin huecos")
}

// ── Ventas ──────────────────────────────────────────────────────────────

func TestVentaRepo_CreateYFindByID(t *testing.T) {
	db := abrirDB(t)
	v := crearVenta(t, db, "B11111111")

	cargada, err := NewVentaRepository(db).FindByID(context.Background(), v.ID)
	require.NoError(t, err)

	assert.Equal(t, "Obras García SL", cargada.Cliente.Nombre)
	assert.Equal(t, model.EstadoBorrador, cargada.Estado)
	require.Len(t, cargada.Items, 2)
	// Items come back in form order.
	assert.Equal(t, "Reforma baño", cargada.Items[0].Descripcion)
	assert.Equal(t, "1210", cargada.Total.String())
}

func TestVentaRepo_ReplaceItems(t *testing.T) {
	db := abrirDB(t)
	repo := NewVentaRepository(db)
	ctx := context.Background()
	v := crearVenta(t, db, "B22222222")

	v.Items = []model.VentaItem{
		{Orden: 0, Descripcion: "Solo pintura", Cantidad: decimal.NewFromInt(2),
			Unidad: "hora", PrecioUnitario: decimal.NewFromInt(30),
			IVAPorcentaje: decimal.NewFromInt(21), Subtotal: decimal.NewFromInt(60)},
	}
	v.BaseImponible = decimal.NewFromInt(60)
	v.TotalIVA = decimal.RequireFromString("12.6")
	v.Total = decimal.RequireFromString("72.6")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.ReplaceItems(ctx, tx, v)
	}))

	cargada, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, cargada.Items, 1)
	assert.Equal(t, "Solo pintura", cargada.Items[0].Descripcion)
	assert.Equal(t, "72.6", cargada.Total.String())
}

func TestVentaRepo_Delete_CascadaYRutas(t *testing.T) {
	db := abrirDB(t)
	repo := NewVentaRepository(db)
	ctx := context.Background()
	v := crearVenta(t, db, "B33333333")

	ruta := "Documentos/Facturas/2025/Factura_A-2025-0001.pdf"
	docs := NewDocumentoRepository(db)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := docs.Create(ctx, tx, &model.DocumentoVenta{
			VentaID: v.ID, Tipo: model.TipoPresupuesto, Numero: "PP-2025-0001", FechaEmision: v.CreatedAt,
		}); err != nil {
			return err
		}
		d := &model.DocumentoVenta{VentaID: v.ID, Tipo: model.TipoFactura, Numero: "A-2025-0001", FechaEmision: v.CreatedAt}
		if err := docs.Create(ctx, tx, d); err != nil {
			return err
		}
		return tx.Model(d).Update("ruta_pdf", ruta).Error
	}))

	rutas, err := repo.Delete(ctx, v.ID)
	require.NoError(t, err)
	// Only the factura had a rendered file.
	assert.Equal(t, []string{ruta}, rutas)

	_, err = repo.FindByID(ctx, v.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The cascade has to reach items and documents.
	var nItems, nDocs int64
	require.NoError(t, db.Model(&model.VentaItem{}).Where("venta_id = ?", v.ID).Count(&nItems).Error)
	require.NoError(t, db.Model(&model.DocumentoVenta{}).Where("venta_id = ?", v.ID).Count(&nDocs).Error)
	assert.Zero(t, nItems)
	assert.Zero(t, nDocs)
}

func TestVentaRepo_Delete_NoExiste(t *testing.T) {
	db := abrirDB(t)

	_, err := NewVentaRepository(db).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVentaRepo_ListYPendientes(t *testing.T) {
	db := abrirDB(t)
	repo := NewVentaRepository(db)
	ctx := context.Background()

	borrador := crearVenta(t, db, "B44444444")
	presupuestada := crearVenta(t, db, "B55555555")
	facturada := crearVenta(t, db, "B66666666")
	rechazada := crearVenta(t, db, "B77777777")
	require.NoError(t, repo.UpdateEstado(ctx, nil, presupuestada.ID, model.EstadoPresupuestado))
	require.NoError(t, repo.UpdateEstado(ctx, nil, facturada.ID, model.EstadoFacturado))
	require.NoError(t, repo.UpdateEstado(ctx, nil, rechazada.ID, model.EstadoRechazado))

	ventas, total, err := repo.List(ctx, dto.VentaFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, ventas, 4)

	ventas, total, err = repo.List(ctx, dto.VentaFilter{Page: 1, Limit: 50, Estado: "borrador"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, ventas, 1)
	assert.Equal(t, borrador.ID, ventas[0].ID)

	// Pendientes de facturar: quoted sí, draft/invoiced/rejected no.
	pendientes, err := repo.PendientesFacturar(ctx)
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, presupuestada.ID, pendientes[0].ID)
}

// ── Clientes ────────────────────────────────────────────────────────────

func TestClienteRepo_UpsertByNIF(t *testing.T) {
	db := abrirDB(t)
	repo := NewClienteRepository(db)
	ctx := context.Background()

	creado, err := repo.UpsertByNIF(ctx, nil, &model.Cliente{Nombre: "Juan Pérez", NIF: "12345678Z", Ciudad: "Sevilla"})
	require.NoError(t, err)

	// Same NIF updates in place and keeps the ID.
	actualizado, err := repo.UpsertByNIF(ctx, nil, &model.Cliente{Nombre: "Juan Pérez García", NIF: "12345678Z", Ciudad: "Cádiz"})
	require.NoError(t, err)
	assert.Equal(t, creado.ID, actualizado.ID)
	assert.Equal(t, "Juan Pérez García", actualizado.Nombre)
	assert.Equal(t, "Cádiz", actualizado.Ciudad)

	encontrado, err := repo.FindByNIF(ctx, "12345678Z")
	require.NoError(t, err)
	assert.Equal(t, creado.ID, encontrado.ID)

	lista, err := repo.List(ctx, "pérez")
	require.NoError(t, err)
	assert.Len(t, lista, 1)
}

// ── Documentos ──────────────────────────────────────────────────────────

func TestDocumentoRepo_UnicoPorVentaYTipo(t *testing.T) {
	db := abrirDB(t)
	docs := NewDocumentoRepository(db)
	ctx := context.Background()
	v := crearVenta(t, db, "B88888888")

	crear := func(numero string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return docs.Create(ctx, tx, &model.DocumentoVenta{
				VentaID: v.ID, Tipo: model.TipoFactura, Numero: numero, FechaEmision: v.CreatedAt,
			})
		})
	}

	require.NoError(t, crear("A-2025-0001"))
	// The unique index refuses a second factura for the same venta.
	assert.Error(t, crear("A-2025-0002"))

	d, err := docs.FindByVentaYTipo(ctx, v.ID, model.TipoFactura)
	require.NoError(t, err)
	assert.Equal(t, "A-2025-0001", d.Numero)
	assert.Nil(t, d.RutaPDF)

	require.NoError(t, docs.UpdateRutaPDF(ctx, d.ID, "Documentos/Facturas/2025/Factura_A-2025-0001.pdf"))
	d, err = docs.FindByVentaYTipo(ctx, v.ID, model.TipoFactura)
	require.NoError(t, err)
	require.NotNil(t, d.RutaPDF)
	assert.Contains(t, *d.RutaPDF, "Factura_A-2025-0001.pdf")
}
