package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
)

// 日期以日粒度文本落库
const dateLayout = "2006-01-02"

func dateToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func nullToDate(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}

// ReplaceRestaurants 整表替换餐厅登记数据
func (s *Store) ReplaceRestaurants(records []model.Restaurant) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM restaurants`); err != nil {
		return fmt.Errorf("清空餐厅表失败: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO restaurants (
			id, name, city, created_at_raw, created_at,
			status, store_type, opening_time, closing_time, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("预编译失败: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.ID, r.Name, r.City, r.CreatedAtRaw, dateToNull(r.CreatedAt),
			r.Status, r.StoreType, r.OpeningTime, r.ClosingTime, r.RowNo,
		)
		if err != nil {
			return fmt.Errorf("写入餐厅记录失败 (id=%d): %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// LoadRestaurants 读出全部餐厅登记记录（按源文件行序）
func (s *Store) LoadRestaurants() ([]model.Restaurant, error) {
	rows, err := s.db.Query(`
		SELECT id, name, city, created_at_raw, created_at,
		       status, store_type, opening_time, closing_time, row_no
		FROM restaurants ORDER BY row_no
	`)
	if err != nil {
		return nil, fmt.Errorf("查询餐厅表失败: %w", err)
	}
	defer rows.Close()

	var out []model.Restaurant
	for rows.Next() {
		var r model.Restaurant
		var created sql.NullString
		if err := rows.Scan(
			&r.ID, &r.Name, &r.City, &r.CreatedAtRaw, &created,
			&r.Status, &r.StoreType, &r.OpeningTime, &r.ClosingTime, &r.RowNo,
		); err != nil {
			return nil, fmt.Errorf("读取餐厅记录失败: %w", err)
		}
		r.CreatedAt = nullToDate(created)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历餐厅表失败: %w", err)
	}
	return out, nil
}

// ReplaceOrders 整表替换订单账本
func (s *Store) ReplaceOrders(records []model.Order) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM orders`); err != nil {
		return fmt.Errorf("清空订单表失败: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO orders (
			order_id, restaurant_id, status, order_day, item_total, commission, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("预编译失败: %w", err)
	}
	defer stmt.Close()

	for _, o := range records {
		_, err := stmt.Exec(
			o.OrderID, o.RestaurantID, o.Status, dateToNull(o.OrderDay),
			o.ItemTotal.String(), o.Commission.String(), o.RowNo,
		)
		if err != nil {
			return fmt.Errorf("写入订单记录失败 (order=%s): %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// LoadOrders 读出全部订单记录（按源文件行序）
func (s *Store) LoadOrders() ([]model.Order, error) {
	rows, err := s.db.Query(`
		SELECT order_id, restaurant_id, status, order_day, item_total, commission, row_no
		FROM orders ORDER BY row_no
	`)
	if err != nil {
		return nil, fmt.Errorf("查询订单表失败: %w", err)
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		var day sql.NullString
		var total, commission string
		if err := rows.Scan(&o.OrderID, &o.RestaurantID, &o.Status, &day, &total, &commission, &o.RowNo); err != nil {
			return nil, fmt.Errorf("读取订单记录失败: %w", err)
		}
		o.OrderDay = nullToDate(day)
		o.ItemTotal = parseStoredDecimal(total)
		o.Commission = parseStoredDecimal(commission)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历订单表失败: %w", err)
	}
	return out, nil
}

// parseStoredDecimal 金额由本层写入，理论上总能解析回来；异常值归零
func parseStoredDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ReplaceAssignments 整表替换销售对照表
func (s *Store) ReplaceAssignments(records []model.SalesAssignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sales_assignments`); err != nil {
		return fmt.Errorf("清空对照表失败: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sales_assignments (row_no, restaurant_name, sales_rep) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("预编译失败: %w", err)
	}
	defer stmt.Close()

	for _, a := range records {
		if _, err := stmt.Exec(a.RowNo, a.RestaurantName, a.SalesRep); err != nil {
			return fmt.Errorf("写入对照记录失败 (行 %d): %w", a.RowNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// LoadAssignments 读出全部对照记录，严格按原始行序
// 去重裁决依赖此顺序（首次出现获胜）。
func (s *Store) LoadAssignments() ([]model.SalesAssignment, error) {
	rows, err := s.db.Query(`
		SELECT row_no, restaurant_name, sales_rep FROM sales_assignments ORDER BY row_no
	`)
	if err != nil {
		return nil, fmt.Errorf("查询对照表失败: %w", err)
	}
	defer rows.Close()

	var out []model.SalesAssignment
	for rows.Next() {
		var a model.SalesAssignment
		if err := rows.Scan(&a.RowNo, &a.RestaurantName, &a.SalesRep); err != nil {
			return nil, fmt.Errorf("读取对照记录失败: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历对照表失败: %w", err)
	}
	return out, nil
}

// TableCounts 各表行数
type TableCounts struct {
	Restaurants int `json:"restaurants"`
	Orders      int `json:"orders"`
	Assignments int `json:"assignments"`
}

// Counts 统计三张表的行数
func (s *Store) Counts() (TableCounts, error) {
	var c TableCounts
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM restaurants`).Scan(&c.Restaurants); err != nil {
		return c, fmt.Errorf("统计餐厅表失败: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM orders`).Scan(&c.Orders); err != nil {
		return c, fmt.Errorf("统计订单表失败: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM sales_assignments`).Scan(&c.Assignments); err != nil {
		return c, fmt.Errorf("统计对照表失败: %w", err)
	}
	return c, nil
}

// ClearAll 清空全部数据集（开始新会话）
func (s *Store) ClearAll() error {
	for _, table := range []string{"restaurants", "orders", "sales_assignments", "config"} {
		if _, err := s.db.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("清空 %s 失败: %w", table, err)
		}
	}
	return nil
}
