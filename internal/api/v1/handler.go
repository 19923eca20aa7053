package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/TheNameLess001/Perfs-mois/internal/config"
	"github.com/TheNameLess001/Perfs-mois/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	downloads *exportDownloadStore
}

// NewHandler 创建 V1 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据导入
	router.POST("/import", h.Import)
	router.DELETE("/datasets", h.ClearDatasets)

	// 对账报表
	router.GET("/report", h.GetReport)

	// 导出
	router.GET("/report/export", h.ExportCSV)
	router.POST("/report/export/xlsx", h.ExportXLSX)
	router.GET("/export/download/:token", h.DownloadExport)
}
