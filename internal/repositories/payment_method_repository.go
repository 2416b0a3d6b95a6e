package repositories

import (
	"context"
	"errors"

	dbm "aitravel/internal/models/db_models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethodRepository interface {
	// ListByUser returns the default method first, then oldest first.
	ListByUser(ctx context.Context, userID string) ([]dbm.PaymentMethod, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*dbm.PaymentMethod, error)

	// Create stores pm. The user's first method always becomes the default.
	Create(ctx context.Context, pm *dbm.PaymentMethod) error

	// SetDefault reports false when the method does not exist for the user.
	SetDefault(ctx context.Context, id, userID string) (bool, error)

	// Delete removes the method and, when it was the default, promotes the
	// oldest remaining one. It returns the promoted method, if any.
	Delete(ctx context.Context, id, userID string) (found bool, promoted *dbm.PaymentMethod, err error)
}

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) ListByUser(ctx context.Context, userID string) ([]dbm.PaymentMethod, error) {
	var methods []dbm.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&methods).Error
	return methods, err
}

func (r *paymentMethodRepository) FindByIDForUser(ctx context.Context, id, userID string) (*dbm.PaymentMethod, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var pm dbm.PaymentMethod
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&pm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pm, nil
}

func (r *paymentMethodRepository) Create(ctx context.Context, pm *dbm.PaymentMethod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createPaymentMethodTx(tx, pm)
	})
}

func createPaymentMethodTx(tx *gorm.DB, pm *dbm.PaymentMethod) error {
	var count int64
	if err := tx.Model(&dbm.PaymentMethod{}).Where("user_id = ?", pm.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		pm.IsDefault = true
	}

	if pm.IsDefault && count > 0 {
		if err := tx.Model(&dbm.PaymentMethod{}).
			Where("user_id = ? AND is_default = ?", pm.UserID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
	}
	return tx.Create(pm).Error
}

func (r *paymentMethodRepository) SetDefault(ctx context.Context, id, userID string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&dbm.PaymentMethod{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true

		return tx.Model(&dbm.PaymentMethod{}).
			Where("user_id = ? AND id <> ? AND is_default = ?", userID, id, true).
			Update("is_default", false).Error
	})
	return found, err
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id, userID string) (bool, *dbm.PaymentMethod, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil, nil
	}

	found := false
	var promoted *dbm.PaymentMethod

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pm dbm.PaymentMethod
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&pm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		if err := tx.Delete(&pm).Error; err != nil {
			return err
		}
		if !pm.IsDefault {
			return nil
		}

		var next dbm.PaymentMethod
		err := tx.Where("user_id = ?", userID).
			Order("created_at ASC, id ASC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&next).Update("is_default", true).Error; err != nil {
			return err
		}
		next.IsDefault = true
		promoted = &next
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return found, promoted, nil
}
