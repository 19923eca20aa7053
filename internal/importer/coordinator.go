package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TheNameLess001/Perfs-mois/internal/parser"
	"github.com/TheNameLess001/Perfs-mois/internal/store"
)

// Kind 输入表类别
type Kind string

const (
	KindRestaurants Kind = "restaurants" // 餐厅登记表
	KindOrders      Kind = "orders"      // 配送订单账本
	KindSales       Kind = "sales"       // 销售对照表（可选）
)

// ValidKind 校验表类别
func ValidKind(k Kind) bool {
	switch k {
	case KindRestaurants, KindOrders, KindSales:
		return true
	}
	return false
}

// Options 导入选项
type Options struct {
	Kind       Kind
	FilePath   string // 已落盘的上传文件
	SourceName string // 原始文件名，记录在导入元信息里
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"` // start/info/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Summary 单次导入结果
type Summary struct {
	ImportID string             `json:"importId"`
	Kind     Kind               `json:"kind"`
	Source   string             `json:"source"`
	Stats    *parser.ParseStats `json:"stats"`
	Duration time.Duration      `json:"duration"`

	// 仅销售对照表：列定位结果（是否走了列位兜底）
	SalesColumns *parser.SalesColumns `json:"salesColumns,omitempty"`
}

// Coordinator 导入协调器：读文件、定位列、解析、整表入库
type Coordinator struct {
	store *store.Store
}

// NewCoordinator 创建导入协调器
func NewCoordinator(s *store.Store) *Coordinator {
	return &Coordinator{store: s}
}

// Import 异步执行导入，返回进度通道
func (c *Coordinator) Import(opts Options) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 16)
	go func() {
		defer close(progress)
		c.doImport(opts, progress)
	}()
	return progress
}

func (c *Coordinator) doImport(opts Options, progress chan ProgressEvent) {
	send := func(eventType, message string, data interface{}) {
		progress <- ProgressEvent{Type: eventType, Message: message, Data: data, Timestamp: time.Now()}
	}

	send("start", fmt.Sprintf("开始导入 %s", opts.Kind), map[string]string{"source": opts.SourceName})

	summary, err := c.Run(opts)
	if err != nil {
		send("error", fmt.Sprintf("导入失败: %v", err), nil)
		return
	}

	if summary.Stats.SkippedRows > 0 || summary.Stats.UnparsableDates > 0 || summary.Stats.UnparsableAmount > 0 {
		send("info", fmt.Sprintf("解析降级: 跳过 %d 行, 坏日期 %d, 坏金额 %d",
			summary.Stats.SkippedRows, summary.Stats.UnparsableDates, summary.Stats.UnparsableAmount), summary.Stats)
	}
	if summary.SalesColumns != nil && (summary.SalesColumns.NameByFallback || summary.SalesColumns.RepByFallback) {
		send("info", "销售对照表表头未识别，已按列位兜底", summary.SalesColumns)
	}

	send("done", fmt.Sprintf("导入完成，%d 行入库", summary.Stats.ImportedRows), summary)
}

// Run 同步执行导入
func (c *Coordinator) Run(opts Options) (*Summary, error) {
	if !ValidKind(opts.Kind) {
		return nil, fmt.Errorf("未知的表类别: %q", opts.Kind)
	}

	start := time.Now()
	table, err := parser.ReadFile(opts.FilePath)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ImportID: uuid.NewString(),
		Kind:     opts.Kind,
		Source:   opts.SourceName,
	}

	switch opts.Kind {
	case KindRestaurants:
		records, stats, err := parser.ParseRestaurants(table)
		if err != nil {
			return nil, err
		}
		if err := c.store.ReplaceRestaurants(records); err != nil {
			return nil, err
		}
		summary.Stats = stats

	case KindOrders:
		records, stats, err := parser.ParseOrders(table)
		if err != nil {
			return nil, err
		}
		if err := c.store.ReplaceOrders(records); err != nil {
			return nil, err
		}
		summary.Stats = stats

	case KindSales:
		records, cols, stats, err := parser.ParseAssignments(table)
		if err != nil {
			return nil, err
		}
		if err := c.store.ReplaceAssignments(records); err != nil {
			return nil, err
		}
		summary.Stats = stats
		summary.SalesColumns = &cols
	}

	if err := c.store.RecordImport(string(opts.Kind), opts.SourceName); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
