package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock

// Repository reads the employee directory. This service never writes it.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindByWhatsAppNumber(ctx context.Context, number string) (*Employee, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Where("employee_code = ?", code).
		First(&e).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &e, nil
}

func (r *repository) FindByWhatsAppNumber(ctx context.Context, number string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Where("whatsapp_number = ?", number).
		First(&e).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &e, nil
}
