package repository

import (
	"context"

	"github.com/jpm92/simple-fact/internal/model"

	"gorm.io/gorm"
)

type SerieRepository interface {
	NextNumero(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, serie string, anio int) (int, error)
}

type serieRepo struct{ db *gorm.DB }

func NewSerieRepository(db *gorm.DB) SerieRepository { return &serieRepo{db: db} }

// NextNumero mints the next sequence number for (tipo, serie, anio) with a
// single UPSERT, so reading and advancing the counter is one atomic
// statement. It must run inside the issuing transaction: a rollback then
// returns the number and the printed sequence keeps no gaps.
func (r *serieRepo) NextNumero(ctx context.Context, tx *gorm.DB, tipo model.TipoDocumento, serie string, anio int) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO series (tipo, serie, anio, ultimo_numero)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (tipo, serie, anio) DO UPDATE
		SET ultimo_numero = ultimo_numero + 1
		RETURNING ultimo_numero
	`, tipo, serie, anio).Scan(&num).Error
	return num, err
}
