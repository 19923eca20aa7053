package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheNameLess001/Perfs-mois/internal/engine"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

// reportOptions 由查询参数与配置缺省值构造引擎选项
// 窗口边界缺省时使用配置里的预设，排序与去重策略同理。
func (h *Handler) reportOptions(c *gin.Context) (engine.Options, error) {
	start := c.DefaultQuery("start", h.cfg.Business.WindowStart)
	end := c.DefaultQuery("end", h.cfg.Business.WindowEnd)

	window, err := temporal.ParseWindow(start, end)
	if err != nil {
		return engine.Options{}, err
	}

	return engine.Options{
		Window:          window,
		Sort:            engine.SortMode(c.DefaultQuery("sort", h.cfg.Business.SortMode)),
		UnassignedLabel: h.cfg.Business.UnassignedLabel,
		Duplicates:      engine.DuplicatePolicy(h.cfg.Business.DuplicatePolicy),
	}, nil
}

// runReconciliation 从存储读出三张原始表并执行一次纯对账运行
func (h *Handler) runReconciliation(c *gin.Context) (*engine.Result, bool) {
	opts, err := h.reportOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	restaurants, err := h.store.LoadRestaurants()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取餐厅表失败"})
		return nil, false
	}
	if len(restaurants) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "餐厅登记表尚未导入"})
		return nil, false
	}

	orders, err := h.store.LoadOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取订单表失败"})
		return nil, false
	}

	assignments, err := h.store.LoadAssignments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取对照表失败"})
		return nil, false
	}

	result, err := engine.Reconcile(restaurants, orders, assignments, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return result, true
}

// GetReport 窗口内对账报表（明细 + 按销售汇总 + 数据质量）
// GET /api/report?start=YYYY-MM-DD&end=YYYY-MM-DD&sort=orders|volume
func (h *Handler) GetReport(c *gin.Context) {
	result, ok := h.runReconciliation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}
