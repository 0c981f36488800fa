package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"
)

// MenuCache stores menu listings keyed by filter. A miss is reported with ok=false.
type MenuCache interface {
	GetMenuItems(ctx context.Context, key string) (items []models.MenuItem, ok bool, err error)
	SetMenuItems(ctx context.Context, key string, items []models.MenuItem) error
	InvalidateMenu(ctx context.Context) error
}

// --- Category DTOs ---
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// --- Menu item DTOs ---
type CreateMenuItemRequest struct {
	Name        string  `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
	CategoryID  int64   `json:"category" form:"category"`
	IsAvailable *bool   `json:"isAvailable" form:"isAvailable"`
	Image       *string `json:"-" form:"-"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name" form:"name"`
	Description *string  `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
	CategoryID  *int64   `json:"category" form:"category"`
	IsAvailable *bool    `json:"isAvailable" form:"isAvailable"`
	Image       *string  `json:"-" form:"-"`
}

// --- MenuService Interface ---
type MenuService interface {
	ListMenuItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, req UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type menuService struct {
	menu       repositories.MenuRepository
	cache      MenuCache
	assetsBase string
}

// NewMenuService creates a new instance of MenuService. Image paths are expanded against assetsBase.
// cache may be nil.
func NewMenuService(menu repositories.MenuRepository, cache MenuCache, assetsBase string) MenuService {
	if cache == nil {
		cache = noopMenuCache{}
	}
	return &menuService{menu: menu, cache: cache, assetsBase: assetsBase}
}

func menuCacheKey(filters models.MenuItemFilters) string {
	if filters.CategoryID == nil {
		return "all"
	}
	return "category:" + utils.Int64ToStr(*filters.CategoryID)
}

func (s *menuService) withAssetURL(item models.MenuItem) models.MenuItem {
	if item.Image != nil {
		url := utils.ResolveAssetURL(s.assetsBase, *item.Image)
		item.Image = &url
	}
	return item
}

func (s *menuService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateMenu(ctx); err != nil {
		utils.LogError(err, "Failed to invalidate menu cache")
	}
}

func (s *menuService) ListMenuItems(ctx context.Context, filters models.MenuItemFilters) ([]models.MenuItem, error) {
	key := menuCacheKey(filters)
	items, ok, err := s.cache.GetMenuItems(ctx, key)
	if err != nil {
		utils.LogWarn("Menu cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if !ok {
		items, err = s.menu.GetItems(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("listing menu items: %w", err)
		}
		if err := s.cache.SetMenuItems(ctx, key, items); err != nil {
			utils.LogWarn("Menu cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	out := make([]models.MenuItem, len(items))
	for i, item := range items {
		out[i] = s.withAssetURL(item)
	}
	return out, nil
}

func (s *menuService) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := s.menu.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}
	withURL := s.withAssetURL(*item)
	return &withURL, nil
}

func (s *menuService) categoryExists(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.menu.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationErrorf("category does not exist")
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return category, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if req.Price <= 0 {
		return nil, validationErrorf("price must be greater than 0")
	}
	if req.CategoryID <= 0 {
		return nil, validationErrorf("category is required")
	}
	category, err := s.categoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:        name,
		Description: normalizeOptional(req.Description),
		Price:       utils.RoundToCents(req.Price),
		CategoryID:  req.CategoryID,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		Image:       req.Image,
	}
	if err := s.menu.CreateItem(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("creating menu item: %w", err)
	}
	item.Category = category
	s.invalidate(ctx)

	utils.LogInfo("Menu item created", map[string]interface{}{"menu_item_id": item.ID, "name": item.Name})
	withURL := s.withAssetURL(*item)
	return &withURL, nil
}

// UpdateMenuItem applies a partial update. Prices already captured by orders are unaffected.
func (s *menuService) UpdateMenuItem(ctx context.Context, id int64, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.menu.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("getting menu item %d: %w", id, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErrorf("name cannot be empty")
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = normalizeOptional(req.Description)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, validationErrorf("price must be greater than 0")
		}
		item.Price = utils.RoundToCents(*req.Price)
	}
	if req.CategoryID != nil && *req.CategoryID != item.CategoryID {
		category, err := s.categoryExists(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		item.CategoryID = category.ID
		item.Category = category
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.Image != nil {
		item.Image = req.Image
	}

	if err := s.menu.UpdateItem(ctx, nil, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("updating menu item %d: %w", id, err)
	}
	s.invalidate(ctx)

	withURL := s.withAssetURL(*item)
	return &withURL, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := s.menu.DeleteItem(ctx, nil, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrMenuItemNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrMenuItemInUse
		}
		return fmt.Errorf("deleting menu item %d: %w", id, err)
	}
	s.invalidate(ctx)
	utils.LogInfo("Menu item deleted", map[string]interface{}{"menu_item_id": id})
	return nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.menu.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *menuService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if utils.IsEmpty(req.Name) {
		return nil, validationErrorf("name is required")
	}
	name := strings.TrimSpace(req.Name)
	category := &models.Category{Name: name, Description: normalizeOptional(req.Description)}
	if err := s.menu.CreateCategory(ctx, nil, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.menu.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, validationErrorf("name cannot be empty")
		}
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		category.Description = normalizeOptional(req.Description)
	}

	if err := s.menu.UpdateCategory(ctx, nil, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateCategory
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("updating category %d: %w", id, err)
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.menu.DeleteCategory(ctx, nil, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrCategoryInUse
		}
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

type noopMenuCache struct{}

func (noopMenuCache) GetMenuItems(context.Context, string) ([]models.MenuItem, bool, error) {
	return nil, false, nil
}
func (noopMenuCache) SetMenuItems(context.Context, string, []models.MenuItem) error { return nil }
func (noopMenuCache) InvalidateMenu(context.Context) error { return nil }
