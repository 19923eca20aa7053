package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/normalizer"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

// SortMode 明细排序口径
type SortMode string

const (
	SortByOrders SortMode = "orders" // 按订单数降序（默认）
	SortByVolume SortMode = "volume" // 按累计营业时长降序
)

// DefaultUnassigned 无销售映射时的哨兵代表名
const DefaultUnassigned = "Unassigned"

// Options 对账运行选项
type Options struct {
	Window          temporal.Window
	Sort            SortMode
	UnassignedLabel string
	Duplicates      DuplicatePolicy
}

// Result 一次对账运行的全部输出
// 引擎对给定输入是纯的：不保留任何跨运行状态，可安全重复调用。
type Result struct {
	ReferenceDate *time.Time            `json:"referenceDate"`
	Window        temporal.Window       `json:"window"`
	Detail        []model.ReconciledRow `json:"detail"`    // 窗口内明细
	DetailAll     []model.ReconciledRow `json:"detailAll"` // 未过滤明细（含创建日期缺失的餐厅）
	Summary       []model.RepSummary    `json:"summary"`
	Quality       model.QualityReport   `json:"quality"`
}

// Reconcile 对账流水线：左连接订单指标 → 挂接销售映射 → 窗口过滤 → 代表汇总 → 排序
// 单向 DAG，无回环。每个登记餐厅恰好产出一行明细，缺失连接目标一律补零或补哨兵。
func Reconcile(restaurants []model.Restaurant, orders []model.Order, assignments []model.SalesAssignment, opts Options) (*Result, error) {
	if opts.Window.Start.IsZero() || opts.Window.End.IsZero() {
		return nil, fmt.Errorf("日期窗口未指定")
	}
	if opts.UnassignedLabel == "" {
		opts.UnassignedLabel = DefaultUnassigned
	}
	if opts.Sort == "" {
		opts.Sort = SortByOrders
	}

	metrics := AggregateOrders(orders)
	reference := ReferenceDate(orders)
	repMap := BuildRepMap(assignments, opts.Duplicates)

	result := &Result{
		ReferenceDate: reference,
		Window:        opts.Window,
	}
	result.Quality.DroppedAssignments = repMap.Dropped
	result.Quality.DuplicateKeys = repMap.DuplicateKeys

	// 统计孤儿订单：账本中指向未登记餐厅的行
	known := make(map[int64]bool, len(restaurants))
	for _, r := range restaurants {
		known[r.ID] = true
	}
	for _, o := range orders {
		if !known[o.RestaurantID] {
			result.Quality.OrphanOrders++
		}
		if o.OrderDay == nil {
			result.Quality.UnparsableOrderDays++
		}
	}

	result.DetailAll = make([]model.ReconciledRow, 0, len(restaurants))
	for _, r := range restaurants {
		if r.CreatedAt == nil {
			result.Quality.UnparsableCreatedAt++
		}

		row := model.ReconciledRow{
			Restaurant: r,
			MatchKey:   normalizer.Key(r.Name),
			SalesRep:   repMap.Lookup(r.Name, opts.UnassignedLabel),
		}

		// 左连接补零：无订单的餐厅指标为零而不是缺行
		if m, ok := metrics[r.ID]; ok {
			row.Commandes = m.Orders
			row.CATotal = m.Revenue
			row.Commissions = m.Commission
		} else {
			row.CATotal = decimal.Zero
			row.Commissions = decimal.Zero
		}

		row.TenureDays = temporal.TenureDays(r.CreatedAt, reference)
		row.HoursPerDay, row.HoursVolume = Availability(r, row.TenureDays)

		result.DetailAll = append(result.DetailAll, row)
	}

	// 窗口过滤：创建日期缺失的餐厅无法判定归属任何窗口，排除出窗口视图
	result.Detail = make([]model.ReconciledRow, 0, len(result.DetailAll))
	for _, row := range result.DetailAll {
		if row.CreatedAt != nil && opts.Window.Contains(*row.CreatedAt) {
			result.Detail = append(result.Detail, row)
		}
	}

	result.Summary = summarize(result.Detail)

	sortDetail(result.Detail, opts.Sort)
	sortDetail(result.DetailAll, opts.Sort)

	return result, nil
}

// summarize 按销售代表汇总窗口内明细
// 总营收为零时全部份额记 0（无贡献的字面值），绝不触发除零。
func summarize(detail []model.ReconciledRow) []model.RepSummary {
	byRep := make(map[string]*model.RepSummary)
	order := make([]string, 0)

	total := decimal.Zero
	for _, row := range detail {
		s, ok := byRep[row.SalesRep]
		if !ok {
			s = &model.RepSummary{SalesRep: row.SalesRep, CATotal: decimal.Zero}
			byRep[row.SalesRep] = s
			order = append(order, row.SalesRep)
		}
		s.Restaurants++
		s.Commandes += row.Commandes
		s.CATotal = s.CATotal.Add(row.CATotal)
		s.HoursVolume = temporal.Round1(s.HoursVolume + row.HoursVolume)
		total = total.Add(row.CATotal)
	}

	hundred := decimal.NewFromInt(100)
	summary := make([]model.RepSummary, 0, len(order))
	for _, rep := range order {
		s := byRep[rep]
		if total.IsPositive() {
			s.RevenueShare = s.CATotal.Mul(hundred).DivRound(total, 1)
		} else {
			s.RevenueShare = decimal.Zero
		}
		summary = append(summary, *s)
	}

	// 按营收降序，营收相同按代表名，保证可复现
	sort.SliceStable(summary, func(i, j int) bool {
		if c := summary[i].CATotal.Cmp(summary[j].CATotal); c != 0 {
			return c > 0
		}
		return summary[i].SalesRep < summary[j].SalesRep
	})
	return summary
}

// sortDetail 明细排序，平局按餐厅标识符升序，保证可复现
func sortDetail(rows []model.ReconciledRow, mode SortMode) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch mode {
		case SortByVolume:
			if rows[i].HoursVolume != rows[j].HoursVolume {
				return rows[i].HoursVolume > rows[j].HoursVolume
			}
		default:
			if rows[i].Commandes != rows[j].Commandes {
				return rows[i].Commandes > rows[j].Commandes
			}
		}
		return rows[i].ID < rows[j].ID
	})
}
