package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/model"
)

// GormCustomerRepository stores customers through GORM.
type GormCustomerRepository struct {
	DB *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{DB: db}
}

// AutoMigrate creates or updates the customer_model table.
func (r *GormCustomerRepository) AutoMigrate() error {
	return r.DB.AutoMigrate(&model.Customer{})
}

func (r *GormCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if c == nil {
		return nil, appErrors.ErrMissingInput
	}
	saved := *c
	saved.ID = 0
	if err := r.DB.WithContext(ctx).Create(&saved).Error; err != nil {
		return nil, appErrors.NewPersistenceError("save", err)
	}
	return &saved, nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	var c model.Customer
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, appErrors.NewPersistenceError("find", err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) DeleteByID(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return appErrors.NewPersistenceError("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*GormCustomerRepository)(nil)
