package serviceimpl

import (
	"context"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	msgMenuNotFound = "Menu item not found"
	menuCachePrefix = "menu:"
)

func menuTreeKey(role string) string {
	return menuCachePrefix + "tree:" + role
}

type MenuServiceImpl struct {
	menuRepo repositories.MenuRepository
	cache    ports.CachePort
	cacheTTL time.Duration
}

func NewMenuService(menuRepo repositories.MenuRepository, cache ports.CachePort, cacheTTL time.Duration) services.MenuService {
	return &MenuServiceImpl{
		menuRepo: menuRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *MenuServiceImpl) invalidate(ctx context.Context) {
	cacheDeletePattern(ctx, s.cache, menuCachePrefix+"*")
}

// normalizeParent maps the "" of a request to the root.
func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	id := *parentID
	return &id
}

func (s *MenuServiceImpl) Create(ctx context.Context, req *dto.CreateMenuItemRequest) (*models.MenuItem, error) {
	parentID := normalizeParent(req.ParentID)
	if parentID != nil {
		if _, err := s.menuRepo.GetByID(ctx, *parentID); err != nil {
			return nil, notFound(err, "Parent menu item not found")
		}
	}

	sortOrder := req.SortOrder
	if sortOrder == 0 {
		last, err := s.menuRepo.GetMaxSortOrder(ctx, parentID)
		if err != nil {
			return nil, err
		}
		sortOrder = last + 1
	}

	item := &models.MenuItem{
		ID:        utils.NewDocumentID(),
		Title:     req.Title,
		Path:      req.Path,
		Icon:      req.Icon,
		ParentID:  parentID,
		SortOrder: sortOrder,
		Roles:     req.Roles,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		logger.ErrorContext(ctx, "Failed to create menu item", "error", err)
		return nil, conflict(err, "Menu item already exists")
	}
	s.invalidate(ctx)

	logger.InfoContext(ctx, "Menu item created", "menu_id", item.ID, "title", item.Title)
	return item, nil
}

func (s *MenuServiceImpl) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgMenuNotFound)
	}
	return item, nil
}

func (s *MenuServiceImpl) List(ctx context.Context) ([]*models.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

// parentsOf indexes the parent of every item.
func parentsOf(items []*models.MenuItem) map[string]*string {
	parents := make(map[string]*string, len(items))
	for _, item := range items {
		parents[item.ID] = item.ParentID
	}
	return parents
}

// createsCycle reports whether hanging id under parentID would make id
// its own ancestor.
func createsCycle(parents map[string]*string, id string, parentID *string) bool {
	seen := map[string]bool{}
	for p := parentID; p != nil; p = parents[*p] {
		if *p == id || seen[*p] {
			return true
		}
		seen[*p] = true
	}
	return false
}

func (s *MenuServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgMenuNotFound)
	}

	if req.ParentID != nil {
		parentID := normalizeParent(req.ParentID)
		if parentID != nil {
			all, err := s.menuRepo.List(ctx)
			if err != nil {
				return nil, err
			}
			parents := parentsOf(all)
			if _, ok := parents[*parentID]; !ok {
				return nil, apperr.NotFound("Parent menu item not found")
			}
			if createsCycle(parents, id, parentID) {
				return nil, apperr.Validation("A menu item cannot be its own ancestor")
			}
		}
		item.ParentID = parentID
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Path != nil {
		item.Path = *req.Path
	}
	if req.Icon != nil {
		item.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.Roles != nil {
		item.Roles = *req.Roles
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, notFound(err, msgMenuNotFound)
	}
	s.invalidate(ctx)

	logger.InfoContext(ctx, "Menu item updated", "menu_id", id)
	return item, nil
}

func (s *MenuServiceImpl) Delete(ctx context.Context, id string) (int, error) {
	all, err := s.menuRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := parentsOf(all)[id]; !ok {
		return 0, apperr.NotFound(msgMenuNotFound)
	}

	children := make(map[string][]string, len(all))
	for _, item := range all {
		if item.ParentID != nil {
			children[*item.ParentID] = append(children[*item.ParentID], item.ID)
		}
	}
	ids := []string{id}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}

	if err := s.menuRepo.DeleteMany(ctx, ids); err != nil {
		logger.ErrorContext(ctx, "Failed to delete menu subtree", "menu_id", id, "error", err)
		return 0, err
	}
	s.invalidate(ctx)

	logger.InfoContext(ctx, "Menu item deleted", "menu_id", id, "removed", len(ids))
	return len(ids), nil
}

func (s *MenuServiceImpl) Tree(ctx context.Context, role string) ([]*dto.MenuItemResponse, error) {
	var tree []*dto.MenuItemResponse
	if cacheGet(ctx, s.cache, menuTreeKey(role), &tree) {
		return tree, nil
	}

	all, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.MenuItem, 0, len(all))
	for _, item := range all {
		if item.IsActive && item.VisibleTo(role) {
			visible = append(visible, item)
		}
	}

	tree = dto.BuildMenuTree(visible)
	cacheSet(ctx, s.cache, menuTreeKey(role), tree, s.cacheTTL)
	return tree, nil
}

func (s *MenuServiceImpl) Reorder(ctx context.Context, req *dto.ReorderMenuRequest) error {
	all, err := s.menuRepo.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*models.MenuItem, len(all))
	for _, item := range all {
		byID[item.ID] = item
	}
	parents := parentsOf(all)

	changed := make([]*models.MenuItem, 0, len(req.Items))
	for _, order := range req.Items {
		item, ok := byID[order.ID]
		if !ok {
			return apperr.NotFound(msgMenuNotFound + ": " + order.ID)
		}
		parentID := normalizeParent(order.ParentID)
		if parentID != nil {
			if _, ok := byID[*parentID]; !ok {
				return apperr.NotFound("Parent menu item not found: " + *parentID)
			}
		}
		item.ParentID = parentID
		item.SortOrder = order.SortOrder
		parents[item.ID] = parentID
		changed = append(changed, item)
	}

	for _, item := range changed {
		if createsCycle(parents, item.ID, item.ParentID) {
			return apperr.Validation("A menu item cannot be its own ancestor")
		}
	}

	if err := s.menuRepo.UpdateMany(ctx, changed); err != nil {
		logger.ErrorContext(ctx, "Failed to reorder menu", "error", err)
		return notFound(err, msgMenuNotFound)
	}
	s.invalidate(ctx)

	logger.InfoContext(ctx, "Menu reordered", "items", len(changed))
	return nil
}

type menuSeed struct {
	title, path, icon string
	roles             []string
	children          []menuSeed
}

var defaultMenu = []menuSeed{
	{title: "Dashboard", path: "/dashboard", icon: "home"},
	{title: "Courses", path: "/courses", icon: "book", children: []menuSeed{
		{title: "All Courses", path: "/courses", icon: "list"},
		{title: "Reviews", path: "/courses/reviews", icon: "star", roles: []string{models.RoleAdmin}},
	}},
	{title: "Schedule", path: "/schedule-classes", icon: "calendar"},
	{title: "Users", path: "/users", icon: "users", roles: []string{models.RoleAdmin}, children: []menuSeed{
		{title: "Trainers", path: "/trainers", icon: "user-check"},
		{title: "Students", path: "/users?role=student", icon: "user"},
	}},
	{title: "Trainer Salary", path: "/trainer-salary", icon: "wallet", roles: []string{models.RoleAdmin, models.RoleTrainer}},
	{title: "Menu Settings", path: "/menu/all", icon: "settings", roles: []string{models.RoleAdmin}},
}

func (s *MenuServiceImpl) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.menuRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.InfoContext(ctx, "Menu already seeded", "items", count)
		return 0, nil
	}

	created := 0
	var seed func(items []menuSeed, parentID *string) error
	seed = func(items []menuSeed, parentID *string) error {
		for i, m := range items {
			item := &models.MenuItem{
				ID:        utils.NewDocumentID(),
				Title:     m.title,
				Path:      m.path,
				Icon:      m.icon,
				ParentID:  parentID,
				SortOrder: i + 1,
				Roles:     m.roles,
				IsActive:  true,
			}
			if err := s.menuRepo.Create(ctx, item); err != nil {
				return err
			}
			created++
			if err := seed(m.children, &item.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := seed(defaultMenu, nil); err != nil {
		return created, err
	}
	s.invalidate(ctx)

	logger.InfoContext(ctx, "Default menu seeded", "items", created)
	return created, nil
}
