package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/TheNameLess001/Perfs-mois/internal/engine"
)

const (
	sheetDetail  = "Détail"
	sheetSummary = "Synthèse"
)

// summaryHeaders 汇总 Sheet 列序
var summaryHeaders = []string{
	"Sales Rep",
	"Restaurants",
	"Commandes",
	"CA_Total",
	"Volume_Horaire",
	"Part_CA_%",
}

// BuildWorkbook 由一次对账结果生成双 Sheet 工作簿（明细 + 按销售汇总）
func BuildWorkbook(result *engine.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetDetail); err != nil {
		return nil, fmt.Errorf("重命名明细 Sheet 失败: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("创建汇总 Sheet 失败: %w", err)
	}

	if err := fillDetailSheet(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := fillSummarySheet(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}

	idx, err := f.GetSheetIndex(sheetDetail)
	if err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func fillDetailSheet(f *excelize.File, result *engine.Result) error {
	headers := make([]interface{}, len(DetailHeaders))
	for i, h := range DetailHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetDetail, "A1", &headers); err != nil {
		return fmt.Errorf("写出明细表头失败: %w", err)
	}

	for i, row := range result.Detail {
		createdAt := ""
		if row.CreatedAt != nil {
			createdAt = row.CreatedAt.Format("2006-01-02")
		}
		caTotal, _ := row.CATotal.Float64()
		commissions, _ := row.Commissions.Float64()
		values := []interface{}{
			row.Name,
			row.City,
			createdAt,
			row.Status,
			row.StoreType,
			row.Commandes,
			caTotal,
			commissions,
			row.TenureDays,
			row.HoursPerDay,
			row.HoursVolume,
			row.SalesRep,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetDetail, cell, &values); err != nil {
			return fmt.Errorf("写出明细行 %d 失败: %w", i+2, err)
		}
	}
	return nil
}

func fillSummarySheet(f *excelize.File, result *engine.Result) error {
	headers := make([]interface{}, len(summaryHeaders))
	for i, h := range summaryHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetSummary, "A1", &headers); err != nil {
		return fmt.Errorf("写出汇总表头失败: %w", err)
	}

	for i, s := range result.Summary {
		caTotal, _ := s.CATotal.Float64()
		share, _ := s.RevenueShare.Float64()
		values := []interface{}{
			s.SalesRep,
			s.Restaurants,
			s.Commandes,
			caTotal,
			s.HoursVolume,
			share,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetSummary, cell, &values); err != nil {
			return fmt.Errorf("写出汇总行 %d 失败: %w", i+2, err)
		}
	}
	return nil
}
