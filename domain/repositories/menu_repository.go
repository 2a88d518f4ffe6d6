package repositories

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	DeleteMany(ctx context.Context, ids []string) error
	// List returns every item ordered by sort order then title.
	List(ctx context.Context) ([]*models.MenuItem, error)
	GetMaxSortOrder(ctx context.Context, parentID *string) (int, error)
	UpdateMany(ctx context.Context, items []*models.MenuItem) error
	Count(ctx context.Context) (int64, error)
}
