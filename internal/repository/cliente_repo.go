package repository

import (
	"context"
	"errors"

	"github.com/jpm92/simple-fact/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	UpsertByNIF(ctx context.Context, tx *gorm.DB, c *model.Cliente) (*model.Cliente, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByNIF(ctx context.Context, nif string) (*model.Cliente, error)
	List(ctx context.Context, busqueda string) ([]model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

// UpsertByNIF creates the cliente or, when the NIF already exists, updates
// the stored row in place keeping its ID. tx may be nil outside a
// transaction. Returns the persisted record either way.
func (r *clienteRepo) UpsertByNIF(ctx context.Context, tx *gorm.DB, c *model.Cliente) (*model.Cliente, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var existente model.Cliente
	err := db.WithContext(ctx).Where("nif = ?", c.NIF).First(&existente).Error
	switch {
	case err == nil:
		existente.Nombre = c.Nombre
		existente.Direccion = c.Direccion
		existente.CodigoPostal = c.CodigoPostal
		existente.Ciudad = c.Ciudad
		existente.Provincia = c.Provincia
		existente.Email = c.Email
		existente.Telefono = c.Telefono
		if err := db.WithContext(ctx).Save(&existente).Error; err != nil {
			return nil, err
		}
		return &existente, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.WithContext(ctx).Create(c).Error; err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, err
	}
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *clienteRepo) FindByNIF(ctx context.Context, nif string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("nif = ?", nif).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, busqueda string) ([]model.Cliente, error) {
	var clientes []model.Cliente
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if busqueda != "" {
		patron := "%" + busqueda + "%"
		q = q.Where("nombre LIKE ? OR nif LIKE ? OR ciudad LIKE ?", patron, patron, patron)
	}
	err := q.Order("nombre").Find(&clientes).Error
	return clientes, err
}
