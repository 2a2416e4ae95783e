package models

import (
	"regexp"
	"strings"
	"time"
)

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	iconNameRe = regexp.MustCompile(`^[a-z0-9]+$`)
)

// IconCategory — категория иконок технологий.
type IconCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryIcon ссылается на категорию «слабо»: удаление категории иконки не удаляет.
type CategoryIcon struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	IconName    string    `json:"iconName"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategorizedIcon — денормализованная строка для публичного блока «стек технологий».
type CategorizedIcon struct {
	Icon          CategoryIcon `json:"icon"`
	CategoryName  string       `json:"categoryName"`
	CategoryColor string       `json:"categoryColor"`
}

// IconPreview — результат разрешения имени технологии в иконку.
type IconPreview struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	GlyphData   string `json:"glyphData,omitempty"`
	Color       string `json:"color"`
	Found       bool   `json:"found"`
}

type IconCategoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

func (p IconCategoryPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("category name is required")
	}
	if p.Color != "" && !hexColorRe.MatchString(p.Color) {
		return Validationf("category color %q is not a hex color", p.Color)
	}
	return nil
}

type CategoryIconPayload struct {
	CategoryID  string `json:"categoryId"`
	IconName    string `json:"iconName"`
	DisplayName string `json:"displayName"`
}

func (p CategoryIconPayload) Validate() error {
	if strings.TrimSpace(p.CategoryID) == "" {
		return Validationf("categoryId is required")
	}
	if !iconNameRe.MatchString(p.IconName) {
		return Validationf("iconName %q is not normalized", p.IconName)
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return Validationf("displayName is required")
	}
	return nil
}
