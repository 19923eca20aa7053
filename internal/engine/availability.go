package engine

import (
	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

// Availability 单餐厅可用性派生指标，纯函数，无跨记录依赖
// 返回每日营业时长（小时）与累计营业时长 = 时长 × 在网天数（保留一位小数）。
// 开闭时间缺失或无法解析时时长为 0，错误被吸收而不是向上传播。
func Availability(r model.Restaurant, tenureDays int) (hoursPerDay, hoursVolume float64) {
	hoursPerDay = temporal.Amplitude(r.OpeningTime, r.ClosingTime)
	hoursVolume = temporal.Round1(hoursPerDay * float64(tenureDays))
	return hoursPerDay, hoursVolume
}
