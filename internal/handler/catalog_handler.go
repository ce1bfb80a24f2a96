package handler

import (
	"net/http"
	"roleplay-coach-go/internal/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 暴露人设与场景目录。
type CatalogHandler struct{}

// NewCatalogHandler 创建一个新的 CatalogHandler。
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListPersonas 返回 id → 人设的映射，不包含语气指令。
func (h *CatalogHandler) ListPersonas(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Personas())
}

// ListScenarios 返回 id → 场景的映射。
func (h *CatalogHandler) ListScenarios(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Scenarios())
}
