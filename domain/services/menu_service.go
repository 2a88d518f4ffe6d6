package services

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

type MenuService interface {
	Create(ctx context.Context, req *dto.CreateMenuItemRequest) (*models.MenuItem, error)
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	Update(ctx context.Context, id string, req *dto.UpdateMenuItemRequest) (*models.MenuItem, error)
	// Delete removes the item and its whole subtree, returning how many went.
	Delete(ctx context.Context, id string) (int, error)
	List(ctx context.Context) ([]*models.MenuItem, error)
	// Tree returns the active items visible to role, nested.
	Tree(ctx context.Context, role string) ([]*dto.MenuItemResponse, error)
	Reorder(ctx context.Context, req *dto.ReorderMenuRequest) error
	// SeedDefaults installs the default dashboard menu into an empty table.
	SeedDefaults(ctx context.Context) (int, error)
}
