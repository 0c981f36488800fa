package client

import (
	"context"
	"net/http"
	"sync"

	"restaurant_backend/internal/models"
)

// Menu caches the categories and items last fetched from the API.
type Menu struct {
	session *Session

	mu         sync.RWMutex
	categories []models.Category
	items      []models.MenuItem
}

func NewMenu(session *Session) *Menu {
	return &Menu{session: session}
}

func (m *Menu) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := m.session.do(ctx, http.MethodGet, "/api/menu/categories", nil, &categories); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.categories = categories
	m.mu.Unlock()
	return categories, nil
}

// FetchMenuItems loads the full menu, replacing the cached copy.
func (m *Menu) FetchMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := m.session.do(ctx, http.MethodGet, "/api/menu/items", nil, &items); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return items, nil
}

func (m *Menu) Categories() []models.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Category(nil), m.categories...)
}

// ItemsByCategory filters the cached items. A zero categoryID returns all of them.
func (m *Menu) ItemsByCategory(categoryID int64) []models.MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if categoryID == 0 || item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	return out
}
