package engine

import (
	"time"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

// AggregateOrders 按餐厅标识符聚合订单指标
// 只统计状态严格等于 "Delivered" 的订单，取消或其他状态整单排除，不做部分计入。
// 无订单的餐厅不出现在结果中，补零由对账器在连接时负责。
func AggregateOrders(orders []model.Order) map[int64]model.OrderMetrics {
	metrics := make(map[int64]model.OrderMetrics)
	for _, o := range orders {
		if o.Status != model.OrderStatusDelivered {
			continue
		}
		m := metrics[o.RestaurantID]
		m.Orders++
		m.Revenue = m.Revenue.Add(o.ItemTotal)
		m.Commission = m.Commission.Add(o.Commission)
		metrics[o.RestaurantID] = m
	}
	return metrics
}

// ReferenceDate 参考日期 = 账本中最晚的订单日期
// 不用墙上时钟：同样的输入文件无论何时运行都得到同样的在网天数。
func ReferenceDate(orders []model.Order) *time.Time {
	dates := make([]*time.Time, 0, len(orders))
	for i := range orders {
		dates = append(dates, orders[i].OrderDay)
	}
	return temporal.Latest(dates)
}
