package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type MenuRepository struct {
	guard
	items map[string]models.MenuItem
}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{guard: newGuard(), items: map[string]models.MenuItem{}}
}

func cloneMenuItem(m models.MenuItem) *models.MenuItem {
	m.Roles = slices.Clone(m.Roles)
	m.Children = nil
	if m.ParentID != nil {
		p := *m.ParentID
		m.ParentID = &p
	}
	return &m
}

func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	defer r.lock()()
	if _, ok := r.items[item.ID]; ok {
		return duplicate("menu item %s", item.ID)
	}
	touch(&item.CreatedAt, &item.UpdatedAt)
	r.items[item.ID] = *cloneMenuItem(*item)
	return nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	defer r.lock()()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneMenuItem(item), nil
}

func (r *MenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	defer r.lock()()
	if _, ok := r.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	touch(&item.CreatedAt, &item.UpdatedAt)
	r.items[item.ID] = *cloneMenuItem(*item)
	return nil
}

func (r *MenuRepository) DeleteMany(ctx context.Context, ids []string) error {
	defer r.lock()()
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func (r *MenuRepository) List(ctx context.Context) ([]*models.MenuItem, error) {
	defer r.lock()()
	items := make([]*models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, cloneMenuItem(item))
	}
	slices.SortFunc(items, func(a, b *models.MenuItem) int {
		if n := cmp.Compare(a.SortOrder, b.SortOrder); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Title, b.Title); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (r *MenuRepository) GetMaxSortOrder(ctx context.Context, parentID *string) (int, error) {
	defer r.lock()()
	maxOrder := 0
	for _, item := range r.items {
		if !sameParent(item.ParentID, parentID) {
			continue
		}
		maxOrder = max(maxOrder, item.SortOrder)
	}
	return maxOrder, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UpdateMany moves and reorders items. Nothing is written if any id is unknown.
func (r *MenuRepository) UpdateMany(ctx context.Context, items []*models.MenuItem) error {
	defer r.lock()()
	for _, item := range items {
		if _, ok := r.items[item.ID]; !ok {
			return repositories.ErrNotFound
		}
	}
	for _, item := range items {
		stored := r.items[item.ID]
		stored.ParentID = cloneMenuItem(*item).ParentID
		stored.SortOrder = item.SortOrder
		r.items[item.ID] = stored
	}
	return nil
}

func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	defer r.lock()()
	return int64(len(r.items)), nil
}
