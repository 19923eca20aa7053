package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheNameLess001/Perfs-mois/internal/importer"
)

// Import 导入一张输入表（SSE 流式响应）
// POST /api/import，multipart 字段：file + kind (restaurants/orders/sales)
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	uploadedFile := files[0]

	kind := importer.Kind(c.PostForm("kind"))
	if !importer.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("未知的表类别: %q", kind)})
		return
	}

	// 保存到临时目录，保留扩展名以便按格式解析
	tempFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("perfsmois_import_%d%s", time.Now().UnixNano(), filepath.Ext(uploadedFile.Filename)))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempFilePath)

	// SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	coordinator := importer.NewCoordinator(h.store)
	progressChan := coordinator.Import(importer.Options{
		Kind:       kind,
		FilePath:   tempFilePath,
		SourceName: uploadedFile.Filename,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ClearDatasets 清空全部数据集
// DELETE /api/datasets
func (h *Handler) ClearDatasets(c *gin.Context) {
	if err := h.store.ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "清空数据集失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
