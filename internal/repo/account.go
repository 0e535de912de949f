package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.DB.WithContext(ctx).Omit("User").Create(customer).Error
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserExists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormRepo) UpdateCustomerProfile(ctx context.Context, customer *models.Customer) error {
	return r.DB.WithContext(ctx).
		Model(&models.Customer{ID: customer.ID}).
		Select("phone_number", "birth_date").
		Updates(customer).Error
}

func (r *GormRepo) UpdateUserNames(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("first_name", "last_name").
		Updates(user).Error
}

func (r *GormRepo) SetStaff(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{ID: userID}).Update("is_staff", true).Error
}

func (r *GormRepo) ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Customer
	err := r.DB.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// notFoundIfNone turns a zero-row write into gorm.ErrRecordNotFound.
func notFoundIfNone(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
