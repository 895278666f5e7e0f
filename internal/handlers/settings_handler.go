package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendbook/internal/config"
)

// SettingsHandler exposes client-facing settings.
type SettingsHandler struct {
	theme config.Theme
}

// NewSettingsHandler creates a new SettingsHandler for the configured theme.
func NewSettingsHandler(theme config.Theme) *SettingsHandler {
	return &SettingsHandler{theme: theme}
}

// AppearanceResponse describes the appearance setting.
type AppearanceResponse struct {
	Theme           config.Theme   `json:"theme"`
	Configured      config.Theme   `json:"configured"`
	AvailableThemes []config.Theme `json:"available_themes"`
	HonoredThemes   []config.Theme `json:"honored_themes"`
}

// GetAppearance returns the theme the client should render
// @Summary     Appearance settings
// @Description The effective theme plus the configured value. Only honored themes are ever returned as effective.
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} AppearanceResponse "Appearance"
// @Router      /settings/appearance [get]
func (h *SettingsHandler) GetAppearance(c *gin.Context) {
	c.JSON(http.StatusOK, AppearanceResponse{
		Theme:           h.theme.Effective(),
		Configured:      h.theme,
		AvailableThemes: config.KnownThemes,
		HonoredThemes:   config.HonoredThemes,
	})
}
