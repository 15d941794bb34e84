package repository

import (
	"context"

	"github.com/jpm92/simple-fact/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, d *model.DocumentoVenta) error
	FindByVentaYTipo(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento) (*model.DocumentoVenta, error)
	UpdateRutaPDF(ctx context.Context, id uuid.UUID, ruta string) error
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository { return &documentoRepo{db: db} }

func (r *documentoRepo) Create(ctx context.Context, tx *gorm.DB, d *model.DocumentoVenta) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *documentoRepo) FindByVentaYTipo(ctx context.Context, ventaID uuid.UUID, tipo model.TipoDocumento) (*model.DocumentoVenta, error) {
	var d model.DocumentoVenta
	err := r.db.WithContext(ctx).
		Where("venta_id = ? AND tipo = ?", ventaID, tipo).
		First(&d).Error
	return &d, err
}

// UpdateRutaPDF runs outside the issuing transaction: the document row is
// already committed when the render happens, and a failed render simply
// leaves the path NULL for the next attempt.
func (r *documentoRepo) UpdateRutaPDF(ctx context.Context, id uuid.UUID, ruta string) error {
	return r.db.WithContext(ctx).Model(&model.DocumentoVenta{}).Where("id = ?", id).Update("ruta_pdf", ruta).Error
}
