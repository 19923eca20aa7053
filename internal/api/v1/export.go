package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheNameLess001/Perfs-mois/internal/exporter"
)

const exportDownloadTTL = 10 * time.Minute

// ExportCSV 导出窗口内明细为 CSV（Google Sheets 可直接导入）
// GET /api/report/export
func (h *Handler) ExportCSV(c *gin.Context) {
	result, ok := h.runReconciliation(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="performance_nouveaux_restos.csv"`)

	if err := exporter.WriteDetailCSV(c.Writer, result.Detail); err != nil {
		// 响应已开始流式写出，只能记录
		c.Status(http.StatusInternalServerError)
	}
}

// ExportXLSX 生成双 Sheet 工作簿并返回一次性下载令牌
// POST /api/report/export/xlsx
func (h *Handler) ExportXLSX(c *gin.Context) {
	result, ok := h.runReconciliation(c)
	if !ok {
		return
	}

	f, err := exporter.BuildWorkbook(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成工作簿失败: " + err.Error()})
		return
	}
	defer f.Close()

	tempPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("perfsmois_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := f.SaveAs(tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败: " + err.Error()})
		return
	}

	token := h.downloads.put(tempPath, exportDownloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"url":   "/api/export/download/" + token,
	})
}

// DownloadExport 按令牌下载导出文件（一次有效）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件已被清理"})
		return
	}

	c.FileAttachment(item.filePath, "performance_nouveaux_restos.xlsx")
	h.downloads.delete(token)
}
