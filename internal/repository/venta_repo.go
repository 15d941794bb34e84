package repository

import (
	"context"

	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error
	ReplaceItems(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	PendientesFacturar(ctx context.Context) ([]model.Venta, error)
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden") }).
		Preload("Documentos").
		Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaRepo) UpdateEstado(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoVenta) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

// ReplaceItems swaps the full item set and rewrites the denormalized totals
// in one transaction, so totals and items can never disagree in the store.
// v must carry the new Items and the recalculated totals.
func (r *ventaRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if err := tx.WithContext(ctx).Where("venta_id = ?", v.ID).Delete(&model.VentaItem{}).Error; err != nil {
		return err
	}
	for i := range v.Items {
		v.Items[i].VentaID = v.ID
	}
	if len(v.Items) > 0 {
		if err := tx.WithContext(ctx).Create(&v.Items).Error; err != nil {
			return err
		}
	}
	return tx.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]any{
		"base_imponible":  v.BaseImponible,
		"total_iva":       v.TotalIVA,
		"irpf_porcentaje": v.IRPFPorcentaje,
		"total_irpf":      v.TotalIRPF,
		"total":           v.Total,
		"metodo_pago":     v.MetodoPago,
		"notas":           v.Notas,
	}).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Busqueda != "" {
		patron := "%" + filter.Busqueda + "%"
		q = q.Where("cliente_nombre LIKE ? OR cliente_nif LIKE ?", patron, patron)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Documentos").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

// PendientesFacturar lists the ventas that have started the document flow
// but have no factura yet. Rechazadas stay out until the user accepts them.
func (r *ventaRepo) PendientesFacturar(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	estados := []model.EstadoVenta{model.EstadoPresupuestado, model.EstadoAceptado, model.EstadoEntregado}
	err := r.db.WithContext(ctx).
		Where("estado IN ?", estados).
		Preload("Documentos").
		Order("created_at DESC").
		Find(&ventas).Error
	return ventas, err
}

// Delete removes the venta with its items and documents (FK cascade) and
// returns the PDF paths the deleted documents pointed at, so the caller can
// clean the files up after the commit.
func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var rutas []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var docs []model.DocumentoVenta
		if err := tx.Where("venta_id = ?", id).Find(&docs).Error; err != nil {
			return err
		}
		for _, d := range docs {
			if d.RutaPDF != nil && *d.RutaPDF != "" {
				rutas = append(rutas, *d.RutaPDF)
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Venta{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rutas, nil
}
