package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

// ParseStats 单表解析统计
// 解析降级（坏日期、坏金额）不会中断导入，但计数必须上报给调用方。
type ParseStats struct {
	TotalRows        int `json:"totalRows"`
	ImportedRows     int `json:"importedRows"`
	SkippedRows      int `json:"skippedRows"`      // 标识符缺失或重复而整行跳过
	UnparsableDates  int `json:"unparsableDates"`  // 日期解析失败（行保留，值置 NULL）
	UnparsableAmount int `json:"unparsableAmount"` // 金额解析失败（行保留，值置 0）
}

// ParseRestaurants 将原始表格解析为餐厅登记记录
// 必需列缺失返回 MissingColumnError；标识符重复时保留首次出现。
func ParseRestaurants(t *Table) ([]model.Restaurant, *ParseStats, error) {
	cols, err := LocateColumns("restaurants", t.Headers, RegistryFields)
	if err != nil {
		return nil, nil, err
	}

	stats := &ParseStats{TotalRows: len(t.Rows)}
	seen := make(map[int64]bool, len(t.Rows))
	records := make([]model.Restaurant, 0, len(t.Rows))

	for i := range t.Rows {
		idText := strings.TrimSpace(t.Cell(i, cols[FieldID]))
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil || seen[id] {
			stats.SkippedRows++
			continue
		}
		seen[id] = true

		r := model.Restaurant{
			ID:           id,
			Name:         strings.TrimSpace(t.Cell(i, cols[FieldName])),
			City:         strings.TrimSpace(t.Cell(i, cols[FieldCity])),
			CreatedAtRaw: strings.TrimSpace(t.Cell(i, cols[FieldCreatedAt])),
			Status:       strings.TrimSpace(t.Cell(i, cols[FieldStatus])),
			StoreType:    strings.TrimSpace(t.Cell(i, cols[FieldStoreType])),
			OpeningTime:  strings.TrimSpace(t.Cell(i, cols[FieldOpeningTime])),
			ClosingTime:  strings.TrimSpace(t.Cell(i, cols[FieldClosingTime])),
			RowNo:        i + 1,
		}
		r.CreatedAt = temporal.ParseDate(r.CreatedAtRaw)
		if r.CreatedAt == nil && r.CreatedAtRaw != "" {
			stats.UnparsableDates++
		}

		records = append(records, r)
		stats.ImportedRows++
	}
	return records, stats, nil
}

// ParseOrders 将原始表格解析为订单记录
func ParseOrders(t *Table) ([]model.Order, *ParseStats, error) {
	cols, err := LocateColumns("orders", t.Headers, LedgerFields)
	if err != nil {
		return nil, nil, err
	}

	stats := &ParseStats{TotalRows: len(t.Rows)}
	records := make([]model.Order, 0, len(t.Rows))

	for i := range t.Rows {
		ridText := strings.TrimSpace(t.Cell(i, cols[FieldRestaurantID]))
		rid, err := strconv.ParseInt(ridText, 10, 64)
		if err != nil {
			stats.SkippedRows++
			continue
		}

		o := model.Order{
			OrderID:      strings.TrimSpace(t.Cell(i, cols[FieldOrderID])),
			RestaurantID: rid,
			Status:       strings.TrimSpace(t.Cell(i, cols[FieldOrderStatus])),
			RowNo:        i + 1,
		}

		dayText := strings.TrimSpace(t.Cell(i, cols[FieldOrderDay]))
		o.OrderDay = temporal.ParseDate(dayText)
		if o.OrderDay == nil && dayText != "" {
			stats.UnparsableDates++
		}

		o.ItemTotal = parseAmount(t.Cell(i, cols[FieldItemTotal]), stats)
		o.Commission = parseAmount(t.Cell(i, cols[FieldCommission]), stats)

		records = append(records, o)
		stats.ImportedRows++
	}
	return records, stats, nil
}

// parseAmount 解析金额，缺失或失败一律归零（命名的缺省值策略，不是偶然副作用）
func parseAmount(text string, stats *ParseStats) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	// 法式导出常见的逗号小数点
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		stats.UnparsableAmount++
		return decimal.Zero
	}
	return d
}

// ParseAssignments 将原始表格解析为销售对照记录
// 列定位遵循兜底策略（见 LocateSalesColumns）；空名称行直接丢弃。
func ParseAssignments(t *Table) ([]model.SalesAssignment, SalesColumns, *ParseStats, error) {
	cols, err := LocateSalesColumns(t.Headers)
	if err != nil {
		return nil, SalesColumns{}, nil, err
	}

	stats := &ParseStats{TotalRows: len(t.Rows)}
	records := make([]model.SalesAssignment, 0, len(t.Rows))

	for i := range t.Rows {
		name := strings.TrimSpace(t.Cell(i, cols.NameCol))
		if name == "" {
			stats.SkippedRows++
			continue
		}
		records = append(records, model.SalesAssignment{
			RestaurantName: name,
			SalesRep:       strings.TrimSpace(t.Cell(i, cols.RepCol)),
			RowNo:          i + 1,
		})
		stats.ImportedRows++
	}
	return records, cols, stats, nil
}
