package parser

import (
	"fmt"

	"github.com/TheNameLess001/Perfs-mois/internal/normalizer"
)

// Field 逻辑字段声明：字段名与可接受的表头别名
// 登记表与账本的字段一律不允许按列位猜测，缺列即整个运行失败。
type Field struct {
	Name    string
	Aliases []string
}

// 登记表逻辑字段
const (
	FieldID          = "Id"
	FieldName        = "Restaurant Name"
	FieldCity        = "Main City"
	FieldCreatedAt   = "Created At"
	FieldStatus      = "Status"
	FieldStoreType   = "Store type"
	FieldOpeningTime = "Starting Time"
	FieldClosingTime = "Closing Time"
)

// 账本逻辑字段
const (
	FieldOrderID      = "order id"
	FieldRestaurantID = "Restaurant ID"
	FieldOrderStatus  = "status"
	FieldOrderDay     = "order day"
	FieldItemTotal    = "item total"
	FieldCommission   = "restaurant commission"
)

// RegistryFields 登记表字段别名配置
var RegistryFields = []Field{
	{Name: FieldID, Aliases: []string{"Id", "Restaurant Id"}},
	{Name: FieldName, Aliases: []string{"Restaurant Name", "Nom"}},
	{Name: FieldCity, Aliases: []string{"Main City", "Ville"}},
	{Name: FieldCreatedAt, Aliases: []string{"Created At", "Creation Date", "Date de création"}},
	{Name: FieldStatus, Aliases: []string{"Status", "Statut"}},
	{Name: FieldStoreType, Aliases: []string{"Store type"}},
	{Name: FieldOpeningTime, Aliases: []string{"Starting Time", "Opening Time", "Heure d'ouverture"}},
	{Name: FieldClosingTime, Aliases: []string{"Closing Time", "Heure de fermeture"}},
}

// LedgerFields 订单账本字段别名配置
var LedgerFields = []Field{
	{Name: FieldOrderID, Aliases: []string{"order id", "order no"}},
	{Name: FieldRestaurantID, Aliases: []string{"Restaurant ID"}},
	{Name: FieldOrderStatus, Aliases: []string{"status", "order status"}},
	{Name: FieldOrderDay, Aliases: []string{"order day", "order date"}},
	{Name: FieldItemTotal, Aliases: []string{"item total"}},
	{Name: FieldCommission, Aliases: []string{"restaurant commission", "commission"}},
}

// MissingColumnError 表头中找不到必需列
// 这是致命错误：按列位误聚合到错误的数值列比直接报错危害更大。
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("表 %s 缺少必需列 %q", e.Table, e.Column)
}

// ColumnIndex 逻辑字段名到列下标的映射
type ColumnIndex map[string]int

// LocateColumns 按别名在表头中定位每个逻辑字段
// 表头比较使用归一化键，大小写、重音、标点均不敏感。
func LocateColumns(tableName string, headers []string, fields []Field) (ColumnIndex, error) {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = normalizer.Key(h)
	}

	index := make(ColumnIndex, len(fields))
	for _, f := range fields {
		col := findByAliases(keys, f.Aliases)
		if col < 0 {
			return nil, &MissingColumnError{Table: tableName, Column: f.Name}
		}
		index[f.Name] = col
	}
	return index, nil
}

// findByAliases 按别名顺序查找第一个命中的列下标
func findByAliases(headerKeys []string, aliases []string) int {
	for _, alias := range aliases {
		want := normalizer.Key(alias)
		for i, k := range headerKeys {
			if k != "" && k == want {
				return i
			}
		}
	}
	return -1
}

// SalesColumns 销售对照表的列定位结果
// 仅此表允许按列位兜底：优先命中已知表头，否则名称取第 0 列、销售取第 1 列。
type SalesColumns struct {
	NameCol        int    `json:"nameCol"`
	RepCol         int    `json:"repCol"`
	NameHeader     string `json:"nameHeader"`
	RepHeader      string `json:"repHeader"`
	NameByFallback bool   `json:"nameByFallback"`
	RepByFallback  bool   `json:"repByFallback"`
}

var (
	salesNameAliases = []string{"Restaurant Name", "Nom de l'établissement"}
	salesRepAliases  = []string{"Sales Name", "Sales Rep"}
)

// LocateSalesColumns 定位销售对照表的名称列与销售代表列
func LocateSalesColumns(headers []string) (SalesColumns, error) {
	if len(headers) < 2 {
		return SalesColumns{}, fmt.Errorf("销售对照表至少需要两列，实际 %d 列", len(headers))
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = normalizer.Key(h)
	}

	cols := SalesColumns{}
	cols.NameCol = findByAliases(keys, salesNameAliases)
	if cols.NameCol < 0 {
		cols.NameCol = 0
		cols.NameByFallback = true
	}
	cols.RepCol = findByAliases(keys, salesRepAliases)
	if cols.RepCol < 0 {
		cols.RepCol = 1
		cols.RepByFallback = true
	}
	if cols.RepCol == cols.NameCol {
		return SalesColumns{}, fmt.Errorf("销售对照表名称列与销售列重合（第 %d 列）", cols.NameCol)
	}

	cols.NameHeader = headers[cols.NameCol]
	cols.RepHeader = headers[cols.RepCol]
	return cols, nil
}
