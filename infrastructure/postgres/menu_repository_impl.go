package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type MenuRepositoryImpl struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) repositories.MenuRepository {
	return &MenuRepositoryImpl{db: db}
}

func (r *MenuRepositoryImpl) Create(ctx context.Context, item *models.MenuItem) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

func (r *MenuRepositoryImpl) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *MenuRepositoryImpl) Update(ctx context.Context, item *models.MenuItem) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

func (r *MenuRepositoryImpl) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.MenuItem{}).Error
}

func (r *MenuRepositoryImpl) List(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.WithContext(ctx).Order("sort_order ASC, title ASC").Find(&items).Error
	return items, err
}

func (r *MenuRepositoryImpl) GetMaxSortOrder(ctx context.Context, parentID *string) (int, error) {
	var maxOrder int
	query := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	err := query.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *MenuRepositoryImpl) UpdateMany(ctx context.Context, items []*models.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
				"parent_id":  item.ParentID,
				"sort_order": item.SortOrder,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repositories.ErrNotFound
			}
		}
		return nil
	})
}

func (r *MenuRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error
	return count, err
}
