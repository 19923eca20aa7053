package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheNameLess001/Perfs-mois/internal/model"
	"github.com/TheNameLess001/Perfs-mois/internal/temporal"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testWindow(t *testing.T) temporal.Window {
	t.Helper()
	w, err := temporal.ParseWindow("2025-12-01", "2026-01-31")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	return w
}

func TestAggregateOrders_DeliveredOnly(t *testing.T) {
	t.Parallel()

	// 登记表场景：两笔 Delivered（20 + 15）加一笔 Cancelled（50）
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("20.0"), Commission: dec("2.0"), OrderDay: date(2026, 1, 5)},
		{OrderID: "A2", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("15.0"), Commission: dec("1.5"), OrderDay: date(2026, 1, 6)},
		{OrderID: "A3", RestaurantID: 1, Status: "Cancelled", ItemTotal: dec("50.0"), Commission: dec("5.0"), OrderDay: date(2026, 1, 7)},
		{OrderID: "A4", RestaurantID: 2, Status: "delivered", ItemTotal: dec("9.0"), OrderDay: date(2026, 1, 7)}, // 大小写不同不计入
	}

	metrics := AggregateOrders(orders)
	m, ok := metrics[1]
	if !ok {
		t.Fatalf("restaurant 1 missing")
	}
	if m.Orders != 2 {
		t.Fatalf("Commandes: want 2 got %d", m.Orders)
	}
	if !m.Revenue.Equal(dec("35.0")) {
		t.Fatalf("CA_Total: want 35.0 got %s", m.Revenue)
	}
	if !m.Commission.Equal(dec("3.5")) {
		t.Fatalf("Commissions: want 3.5 got %s", m.Commission)
	}
	if _, ok := metrics[2]; ok {
		t.Fatalf("lowercase delivered must not count")
	}
}

func TestReferenceDate_MaxOrderDay(t *testing.T) {
	t.Parallel()

	orders := []model.Order{
		{OrderDay: date(2026, 1, 5)},
		{OrderDay: nil},
		{OrderDay: date(2026, 1, 20)},
	}
	ref := ReferenceDate(orders)
	if ref == nil || ref.Day() != 20 {
		t.Fatalf("reference: %v", ref)
	}
}

func TestBuildRepMap_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	assignments := []model.SalesAssignment{
		{RestaurantName: "Pizza Roma", SalesRep: "alice", RowNo: 1},
		{RestaurantName: "PIZZA-ROMA!!", SalesRep: "bob", RowNo: 2},
	}
	m := BuildRepMap(assignments, DuplicateKeepFirst)

	if got := m.Lookup("Pizza Roma", DefaultUnassigned); got != "Alice" {
		t.Fatalf("first occurrence should win: got %q", got)
	}
	if m.Dropped != 1 {
		t.Fatalf("dropped count: want 1 got %d", m.Dropped)
	}
	if len(m.DuplicateKeys) != 1 || m.DuplicateKeys[0] != "pizzaroma" {
		t.Fatalf("duplicate keys: %v", m.DuplicateKeys)
	}
}

func TestBuildRepMap_KeepLastPolicy(t *testing.T) {
	t.Parallel()

	assignments := []model.SalesAssignment{
		{RestaurantName: "Pizza Roma", SalesRep: "alice", RowNo: 1},
		{RestaurantName: "pizza roma", SalesRep: "bob", RowNo: 2},
	}
	m := BuildRepMap(assignments, DuplicateKeepLast)
	if got := m.Lookup("Pizza Roma", DefaultUnassigned); got != "Bob" {
		t.Fatalf("keep-last policy: got %q", got)
	}
	if m.Dropped != 1 {
		t.Fatalf("dropped count: want 1 got %d", m.Dropped)
	}
}

func TestRepMap_NoMatchSentinel(t *testing.T) {
	t.Parallel()

	m := BuildRepMap(nil, DuplicateKeepFirst)
	if got := m.Lookup("Inconnu", DefaultUnassigned); got != DefaultUnassigned {
		t.Fatalf("sentinel: got %q", got)
	}
}

func TestReconcile_LeftJoinTotality(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Pizza Roma", CreatedAt: date(2025, 12, 10), OpeningTime: "09:00:00", ClosingTime: "23:00:00"},
		{ID: 2, Name: "Sans Commande", CreatedAt: date(2025, 12, 15)},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("20.0"), OrderDay: date(2026, 1, 5)},
	}

	result, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(result.Detail) != 2 {
		t.Fatalf("every restaurant must produce exactly one row: got %d", len(result.Detail))
	}

	// 无订单无映射的餐厅：指标补零，代表补哨兵
	var without *model.ReconciledRow
	for i := range result.Detail {
		if result.Detail[i].ID == 2 {
			without = &result.Detail[i]
		}
	}
	if without == nil {
		t.Fatalf("restaurant 2 missing")
	}
	if without.Commandes != 0 || !without.CATotal.IsZero() || !without.Commissions.IsZero() {
		t.Fatalf("zero-fill violated: %+v", without)
	}
	if without.SalesRep != DefaultUnassigned {
		t.Fatalf("sentinel violated: %q", without.SalesRep)
	}
}

func TestReconcile_PizzaRomaScenario(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Pizza Roma", CreatedAt: date(2025, 12, 10)},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("20.0"), OrderDay: date(2026, 1, 5)},
		{OrderID: "A2", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("15.0"), OrderDay: date(2026, 1, 6)},
		{OrderID: "A3", RestaurantID: 1, Status: "Cancelled", ItemTotal: dec("50.0"), OrderDay: date(2026, 1, 7)},
	}

	result, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	row := result.Detail[0]
	if row.Commandes != 2 {
		t.Fatalf("Commandes: want 2 got %d", row.Commandes)
	}
	if !row.CATotal.Equal(dec("35.0")) {
		t.Fatalf("CA_Total: want 35.0 got %s", row.CATotal)
	}
}

func TestReconcile_WindowExclusion(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Trop Vieux", CreatedAt: date(2025, 11, 20)},
		{ID: 2, Name: "Dans Fenêtre", CreatedAt: date(2025, 12, 5)},
		{ID: 3, Name: "Date Inconnue", CreatedAt: nil},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("99.0"), OrderDay: date(2026, 1, 5)},
	}

	result, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// 窗口外与日期缺失的餐厅都不在窗口视图中，即便有订单
	if len(result.Detail) != 1 || result.Detail[0].ID != 2 {
		t.Fatalf("window filter violated: %+v", result.Detail)
	}
	// 但未过滤明细里保留全部
	if len(result.DetailAll) != 3 {
		t.Fatalf("unfiltered detail must keep all rows: %d", len(result.DetailAll))
	}
	for _, s := range result.Summary {
		if s.SalesRep == "" {
			t.Fatalf("empty rep in summary")
		}
	}
	if result.Quality.UnparsableCreatedAt != 1 {
		t.Fatalf("quality createdAt: %+v", result.Quality)
	}
}

func TestReconcile_TenureAndVolume(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Nuit Blanche", CreatedAt: date(2025, 12, 10), OpeningTime: "22:00:00", ClosingTime: "02:00:00"},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("10.0"), OrderDay: date(2026, 1, 9)},
	}

	result, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	row := result.Detail[0]
	if row.TenureDays != 30 {
		t.Fatalf("tenure: want 30 got %d", row.TenureDays)
	}
	if row.HoursPerDay != 4.0 {
		t.Fatalf("overnight amplitude: want 4.0 got %v", row.HoursPerDay)
	}
	if row.HoursVolume != 120.0 {
		t.Fatalf("volume: want 120.0 got %v", row.HoursVolume)
	}
}

func TestReconcile_SummarySharesSumTo100(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Pizza Roma", CreatedAt: date(2025, 12, 10)},
		{ID: 2, Name: "Café Déli", CreatedAt: date(2025, 12, 12)},
		{ID: 3, Name: "Chez Léa", CreatedAt: date(2025, 12, 14)},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 1, Status: "Delivered", ItemTotal: dec("50.0"), OrderDay: date(2026, 1, 5)},
		{OrderID: "A2", RestaurantID: 2, Status: "Delivered", ItemTotal: dec("30.0"), OrderDay: date(2026, 1, 6)},
		{OrderID: "A3", RestaurantID: 3, Status: "Delivered", ItemTotal: dec("20.0"), OrderDay: date(2026, 1, 7)},
	}
	assignments := []model.SalesAssignment{
		{RestaurantName: "pizza roma", SalesRep: "alice", RowNo: 1},
		{RestaurantName: "CAFE DELI", SalesRep: "bob", RowNo: 2},
		{RestaurantName: "chez lea", SalesRep: "bob", RowNo: 3},
	}

	result, err := Reconcile(restaurants, orders, assignments, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(result.Summary) != 2 {
		t.Fatalf("summary rows: %d", len(result.Summary))
	}

	sum := decimal.Zero
	for _, s := range result.Summary {
		sum = sum.Add(s.RevenueShare)
	}
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(dec("0.2")) {
		t.Fatalf("shares must sum to 100 ± ε: got %s", sum)
	}

	// 订单数守恒：明细 Commandes 合计 = 窗口内餐厅的 Delivered 订单数
	totalOrders := 0
	for _, row := range result.Detail {
		totalOrders += row.Commandes
	}
	if totalOrders != 3 {
		t.Fatalf("order-count conservation violated: %d", totalOrders)
	}
}

func TestReconcile_ZeroRevenueShares(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Sans Vente", CreatedAt: date(2025, 12, 10)},
	}

	result, err := Reconcile(restaurants, nil, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(result.Summary) != 1 {
		t.Fatalf("summary rows: %d", len(result.Summary))
	}
	if !result.Summary[0].RevenueShare.IsZero() {
		t.Fatalf("zero total must yield zero shares, got %s", result.Summary[0].RevenueShare)
	}
}

func TestReconcile_SortModes(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Peu de commandes", CreatedAt: date(2025, 12, 1), OpeningTime: "00:00:00", ClosingTime: "23:00:00"},
		{ID: 2, Name: "Beaucoup", CreatedAt: date(2026, 1, 1), OpeningTime: "09:00:00", ClosingTime: "10:00:00"},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 2, Status: "Delivered", ItemTotal: dec("10"), OrderDay: date(2026, 1, 10)},
		{OrderID: "A2", RestaurantID: 2, Status: "Delivered", ItemTotal: dec("10"), OrderDay: date(2026, 1, 11)},
	}

	byOrders, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t), Sort: SortByOrders})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if byOrders.Detail[0].ID != 2 {
		t.Fatalf("orders sort: %+v", byOrders.Detail[0])
	}

	byVolume, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t), Sort: SortByVolume})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if byVolume.Detail[0].ID != 1 {
		t.Fatalf("volume sort: %+v", byVolume.Detail[0])
	}
}

func TestReconcile_OrphanOrdersReported(t *testing.T) {
	t.Parallel()

	restaurants := []model.Restaurant{
		{ID: 1, Name: "Seul", CreatedAt: date(2025, 12, 10)},
	}
	orders := []model.Order{
		{OrderID: "A1", RestaurantID: 99, Status: "Delivered", ItemTotal: dec("10"), OrderDay: date(2026, 1, 5)},
	}

	result, err := Reconcile(restaurants, orders, nil, Options{Window: testWindow(t)})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.Quality.OrphanOrders != 1 {
		t.Fatalf("orphan orders: %+v", result.Quality)
	}
}

func TestReconcile_MissingWindow(t *testing.T) {
	t.Parallel()

	if _, err := Reconcile(nil, nil, nil, Options{}); err == nil {
		t.Fatalf("expected error without window")
	}
}
