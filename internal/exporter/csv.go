package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
)

// DetailHeaders 明细导出的固定列序（对外契约，Google Sheets 导入依赖它）
var DetailHeaders = []string{
	"Restaurant Name",
	"Main City",
	"Created At",
	"Status",
	"Store type",
	"Commandes",
	"CA_Total",
	"Commissions",
	"Anciennete_Jours",
	"Heures/Jour",
	"Volume_Horaire",
	"Sales Rep",
}

// WriteDetailCSV 将明细表按固定列序写出为 UTF-8 CSV
func WriteDetailCSV(w io.Writer, rows []model.ReconciledRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(DetailHeaders); err != nil {
		return fmt.Errorf("写出表头失败: %w", err)
	}

	for _, row := range rows {
		createdAt := ""
		if row.CreatedAt != nil {
			createdAt = row.CreatedAt.Format("2006-01-02")
		}
		record := []string{
			row.Name,
			row.City,
			createdAt,
			row.Status,
			row.StoreType,
			strconv.Itoa(row.Commandes),
			row.CATotal.StringFixed(2),
			row.Commissions.StringFixed(2),
			strconv.Itoa(row.TenureDays),
			strconv.FormatFloat(row.HoursPerDay, 'f', -1, 64),
			strconv.FormatFloat(row.HoursVolume, 'f', 1, 64),
			row.SalesRep,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("写出明细行失败 (id=%d): %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
