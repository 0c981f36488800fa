package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 5 << 20

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

var errBadImage = errors.New("only jpg, png, gif or webp images up to 5MB are allowed")

// MenuHandler serves menu items and categories.
type MenuHandler struct {
	menuService services.MenuService
	uploadsDir  string
}

// NewMenuHandler creates a new MenuHandler. Uploaded images are written to uploadsDir.
func NewMenuHandler(ms services.MenuService, uploadsDir string) *MenuHandler {
	return &MenuHandler{menuService: ms, uploadsDir: uploadsDir}
}

// saveImage stores the optional multipart "image" file and returns its public path.
func (h *MenuHandler) saveImage(c *gin.Context) (*string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] || file.Size > maxImageSize {
		return nil, errBadImage
	}
	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	path := "/uploads/" + name
	return &path, nil
}

// discardImage removes an upload whose menu item was never saved.
func (h *MenuHandler) discardImage(image *string) {
	if image == nil {
		return
	}
	path := filepath.Join(h.uploadsDir, filepath.Base(*image))
	if err := os.Remove(path); err != nil {
		utils.LogWarn("Failed to remove orphaned upload", map[string]interface{}{"path": path, "error": err.Error()})
	}
}

func (h *MenuHandler) respondImageError(c *gin.Context, err error) {
	if errors.Is(err, errBadImage) {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	respondServiceError(c, err, "UploadMenuImage")
}

// GetMenuItems lists menu items, optionally filtered by ?category=.
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	var filters models.MenuItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		respondBindError(c, err)
		return
	}
	items, err := h.menuService.ListMenuItems(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetMenuItems")
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.menuService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetMenuItemByID")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateMenuItem accepts JSON or a multipart form with an optional image.
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	image, err := h.saveImage(c)
	if err != nil {
		h.respondImageError(c, err)
		return
	}
	req.Image = image

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		h.discardImage(image)
		respondServiceError(c, err, "CreateMenuItem")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateMenuItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	image, err := h.saveImage(c)
	if err != nil {
		h.respondImageError(c, err)
		return
	}
	req.Image = image

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), id, req)
	if err != nil {
		h.discardImage(image)
		respondServiceError(c, err, "UpdateMenuItem")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menuService.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteMenuItem")
		return
	}
	respondMessage(c, "Menu item removed")
}

// --- Categories ---

func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetCategories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.menuService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateCategory")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.menuService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCategory")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menuService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "DeleteCategory")
		return
	}
	respondMessage(c, "Category removed")
}
