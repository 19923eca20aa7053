package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheNameLess001/Perfs-mois/internal/store"
)

// ImportMeta 单表最近一次导入信息
type ImportMeta struct {
	Source     string `json:"source"`
	ImportedAt string `json:"importedAt"`
}

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized   bool                  `json:"initialized"` // 登记表与账本均已导入
	Counts        store.TableCounts     `json:"counts"`
	Imports       map[string]ImportMeta `json:"imports"`
	DefaultWindow map[string]string     `json:"defaultWindow"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	counts, err := h.store.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "统计数据集失败"})
		return
	}

	imports := make(map[string]ImportMeta, 3)
	for _, kind := range []string{"restaurants", "orders", "sales"} {
		source, at := h.store.LastImport(kind)
		if source != "" {
			imports[kind] = ImportMeta{Source: source, ImportedAt: at}
		}
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized: counts.Restaurants > 0 && counts.Orders > 0,
		Counts:      counts,
		Imports:     imports,
		DefaultWindow: map[string]string{
			"start": h.cfg.Business.WindowStart,
			"end":   h.cfg.Business.WindowEnd,
		},
	})
}
