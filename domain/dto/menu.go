package dto

import (
	"sort"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

// === Requests ===

type CreateMenuItemRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=100"`
	Path      string   `json:"path" validate:"max=255"`
	Icon      string   `json:"icon" validate:"max=100"`
	ParentID  *string  `json:"parentId"`
	SortOrder int      `json:"sortOrder" validate:"min=0"`
	Roles     []string `json:"roles" validate:"max=3,dive,oneof=admin trainer student"`
	IsActive  *bool    `json:"isActive"`
}

func (r *CreateMenuItemRequest) ApplyDefaults() {
	if r.IsActive == nil {
		active := true
		r.IsActive = &active
	}
}

func (r *CreateMenuItemRequest) Validate() error {
	return checkParentID(r.ParentID)
}

// UpdateMenuItemRequest moves the item to the root when parentId is "".
type UpdateMenuItemRequest struct {
	Title     *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Path      *string   `json:"path" validate:"omitempty,max=255"`
	Icon      *string   `json:"icon" validate:"omitempty,max=100"`
	ParentID  *string   `json:"parentId"`
	SortOrder *int      `json:"sortOrder" validate:"omitempty,min=0"`
	Roles     *[]string `json:"roles" validate:"omitempty,max=3,dive,oneof=admin trainer student"`
	IsActive  *bool     `json:"isActive"`
}

func (r *UpdateMenuItemRequest) Validate() error {
	return checkParentID(r.ParentID)
}

type ReorderMenuRequest struct {
	Items []MenuOrderItem `json:"items" validate:"required,min=1,max=500,dive"`
}

type MenuOrderItem struct {
	ID        string  `json:"id" validate:"required,objectid"`
	ParentID  *string `json:"parentId"`
	SortOrder int     `json:"sortOrder" validate:"min=0"`
}

func (r *ReorderMenuRequest) Validate() error {
	for _, item := range r.Items {
		if err := checkParentID(item.ParentID); err != nil {
			return err
		}
	}
	return nil
}

func checkParentID(parentID *string) error {
	if parentID != nil && *parentID != "" && !utils.IsDocumentID(*parentID) {
		return apperr.Validation("parentId must be a valid id")
	}
	return nil
}

// === Responses ===

type MenuItemResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Path      string              `json:"path"`
	Icon      string              `json:"icon"`
	ParentID  *string             `json:"parentId"`
	SortOrder int                 `json:"sortOrder"`
	Roles     []string            `json:"roles"`
	IsActive  bool                `json:"isActive"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Children  []*MenuItemResponse `json:"children,omitempty"`
}

// === Mappers ===

func MenuItemToResponse(item *models.MenuItem) *MenuItemResponse {
	if item == nil {
		return nil
	}
	roles := []string(item.Roles)
	if roles == nil {
		roles = []string{}
	}
	return &MenuItemResponse{
		ID:        item.ID,
		Title:     item.Title,
		Path:      item.Path,
		Icon:      item.Icon,
		ParentID:  item.ParentID,
		SortOrder: item.SortOrder,
		Roles:     roles,
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func MenuItemsToResponses(items []*models.MenuItem) []*MenuItemResponse {
	out := make([]*MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, MenuItemToResponse(item))
	}
	return out
}

// BuildMenuTree nests a flat list under its parents. Items whose parent is
// not in the list are dropped together with their subtree, so filtering a
// parent out hides its children too. Siblings are ordered by sortOrder then
// title.
func BuildMenuTree(items []*models.MenuItem) []*MenuItemResponse {
	nodes := make(map[string]*MenuItemResponse, len(items))
	for _, item := range items {
		nodes[item.ID] = MenuItemToResponse(item)
	}

	var roots []*MenuItemResponse
	for _, item := range items {
		node := nodes[item.ID]
		if item.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*item.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	sortMenu(roots)
	if roots == nil {
		roots = []*MenuItemResponse{}
	}
	return roots
}

func sortMenu(nodes []*MenuItemResponse) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Title < nodes[j].Title
	})
	for _, n := range nodes {
		sortMenu(n.Children)
	}
}
