package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusDelivered 计入营收的订单状态（区分大小写的精确匹配）
const OrderStatusDelivered = "Delivered"

// Restaurant 餐厅登记表记录
type Restaurant struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	City         string     `json:"city"`
	CreatedAtRaw string     `json:"createdAtRaw"` // 原始日期文本（日在前）
	CreatedAt    *time.Time `json:"createdAt"`    // 解析失败为 NULL
	Status       string     `json:"status"`
	StoreType    string     `json:"storeType"`
	OpeningTime  string     `json:"openingTime"` // HH:MM:SS
	ClosingTime  string     `json:"closingTime"` // HH:MM:SS
	RowNo        int        `json:"rowNo"`       // 源文件行号（从 1 开始的数据行）
}

// Order 配送订单流水记录
type Order struct {
	OrderID      string          `json:"orderId"`
	RestaurantID int64           `json:"restaurantId"`
	Status       string          `json:"status"`
	OrderDay     *time.Time      `json:"orderDay"` // 解析失败为 NULL
	ItemTotal    decimal.Decimal `json:"itemTotal"`
	Commission   decimal.Decimal `json:"commission"`
	RowNo        int             `json:"rowNo"`
}

// SalesAssignment 销售对照表行（仅按归一化名称匹配，无主键）
type SalesAssignment struct {
	RestaurantName string `json:"restaurantName"`
	SalesRep       string `json:"salesRep"`
	RowNo          int    `json:"rowNo"` // 保留原始顺序，保证去重结果稳定
}

// OrderMetrics 单餐厅订单聚合结果
type OrderMetrics struct {
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
}

// ReconciledRow 对账明细行（每个餐厅恰好一行）
type ReconciledRow struct {
	Restaurant

	Commandes   int             `json:"commandes"`
	CATotal     decimal.Decimal `json:"caTotal"`
	Commissions decimal.Decimal `json:"commissions"`

	TenureDays  int     `json:"tenureDays"`  // 在网天数
	HoursPerDay float64 `json:"hoursPerDay"` // 每日营业时长（小时）
	HoursVolume float64 `json:"hoursVolume"` // 累计营业时长 = 每日时长 × 在网天数

	SalesRep string `json:"salesRep"`
	MatchKey string `json:"matchKey"` // 归一化匹配键
}

// RepSummary 销售代表汇总行（限定在所选日期窗口内）
type RepSummary struct {
	SalesRep     string          `json:"salesRep"`
	Restaurants  int             `json:"restaurants"`
	Commandes    int             `json:"commandes"`
	CATotal      decimal.Decimal `json:"caTotal"`
	HoursVolume  float64         `json:"hoursVolume"`
	RevenueShare decimal.Decimal `json:"revenueShare"` // 占窗口内总营收百分比
}

// QualityReport 数据质量统计
// 解析降级与去重丢弃不会中断运行，但必须对调用方可见
type QualityReport struct {
	DroppedAssignments  int      `json:"droppedAssignments"`  // 去重丢弃的对照表行数
	DuplicateKeys       []string `json:"duplicateKeys"`       // 冲突的归一化键
	UnparsableCreatedAt int      `json:"unparsableCreatedAt"` // 创建日期解析失败数
	UnparsableOrderDays int      `json:"unparsableOrderDays"` // 订单日期解析失败数
	OrphanOrders        int      `json:"orphanOrders"`        // 无对应餐厅的订单数
}
