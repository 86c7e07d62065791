package reports

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultTopProductLimit — сколько товаров отдаёт отчёт по умолчанию.
	DefaultTopProductLimit = 10
	// salesRowsLimit — сколько позиций заказов читает распределение по категориям.
	salesRowsLimit = 1000

	uncategorized = "Uncategorized"
)

// Service — отчёты поверх заказов. Каждый метод — независимый read-pipeline:
// выборка -> фильтр -> свёртка. Ошибки выборки логируются и превращаются в
// безопасное значение по умолчанию, наружу никогда не уходят.
type Service struct {
	orders     repository.OrderRepo
	items      repository.OrderItemRepo
	products   repository.ProductRepo
	categories repository.CategoryRepo

	now  func() time.Time
	rand func() float64

	log *zap.Logger
}

func NewService(repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{
		orders:     repo.Orders,
		items:      repo.OrderItems,
		products:   repo.Products,
		categories: repo.Categories,
		now:        time.Now,
		rand:       rand.Float64,
		log:        log,
	}
}

// MonthlySales — продажи за последние 12 календарных месяцев (включая
// текущий), от старого к новому. Учитываются только completed/delivered.
// Цель первого месяца — 95% его же продаж, дальше цепочка: каждая следующая
// цель равна 105% предыдущего значения цепочки.
func (s *Service) MonthlySales(ctx context.Context) []MonthlySalesPoint {
	result := make([]MonthlySalesPoint, 0, 12)

	var chain float64
	for i := 11; i >= 0; i-- {
		start, end := monthBounds(s.now(), -i)

		orders, err := s.orders.ListTotalsInRange(ctx, start, end, models.RevenueStatuses)
		if err != nil {
			s.log.Error("monthly sales: failed to fetch orders",
				zap.Time("month", start), zap.Error(err))
			return []MonthlySalesPoint{}
		}

		var sales float64
		for _, o := range orders {
			sales += o.Total
		}

		var target int
		if i == 11 {
			target = roundInt(sales * 0.95)
			chain = sales
		} else {
			target = roundInt(chain * 1.05)
			chain = float64(target)
		}

		result = append(result, MonthlySalesPoint{
			Month:  start.Format("Jan"),
			Sales:  roundInt(sales),
			Target: target,
		})
	}

	return result
}

// ProductPerformance — топ товаров по проданным штукам. PercentChange —
// синтетика (случайный знак и величина), реальной истории под ним нет;
// сохраняется для совместимости с дашбордом.
func (s *Service) ProductPerformance(ctx context.Context, limit int) []TopProduct {
	if limit <= 0 {
		limit = DefaultTopProductLimit
	}

	rows, err := s.items.ProductQuantities(ctx)
	if err != nil {
		s.log.Error("product performance: failed to fetch order items", zap.Error(err))
		return []TopProduct{}
	}
	if len(rows) == 0 {
		return []TopProduct{}
	}

	sold := make(map[uuid.UUID]int)
	for _, row := range rows {
		if row.ProductID == nil {
			continue
		}
		sold[*row.ProductID] += row.Quantity
	}
	if len(sold) == 0 {
		return []TopProduct{}
	}

	ids := make([]uuid.UUID, 0, len(sold))
	for id := range sold {
		ids = append(ids, id)
	}

	products, err := s.products.BatchGetByIDs(ctx, ids)
	if err != nil {
		s.log.Error("product performance: failed to fetch products", zap.Error(err))
		return []TopProduct{}
	}
	if len(products) == 0 {
		return []TopProduct{}
	}

	result := make([]TopProduct, 0, len(products))
	for _, p := range products {
		category := uncategorized
		if p.Category != nil && p.Category.Name != "" {
			category = p.Category.Name
		}
		result = append(result, TopProduct{
			ID:            p.ID.String(),
			Name:          p.Name,
			Sales:         sold[p.ID],
			PercentChange: s.syntheticPercentChange(),
			Image:         p.Image,
			Price:         p.Price,
			Category:      category,
		})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Sales > result[j].Sales })
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// CategoryDistribution — выручка по категориям из completed/delivered заказов.
// Выручка считается по price_at_time (снимок на момент покупки), не по
// текущей цене товара.
func (s *Service) CategoryDistribution(ctx context.Context) []CategoryRevenue {
	rows, err := s.items.ListSalesRows(ctx, salesRowsLimit)
	if err != nil {
		s.log.Error("category distribution: failed to fetch order items", zap.Error(err))
		return []CategoryRevenue{}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		s.log.Error("category distribution: failed to fetch categories", zap.Error(err))
		return []CategoryRevenue{}
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	type bucket struct {
		name  string
		value float64
	}
	revenue := make(map[uuid.UUID]*bucket)
	var noCategory *bucket

	for _, row := range rows {
		if row.OrderStatus != models.OrderStatusCompleted && row.OrderStatus != models.OrderStatusDelivered {
			continue
		}

		amount := row.PriceAtTime * float64(row.Quantity)

		if row.CategoryID == nil {
			if noCategory == nil {
				noCategory = &bucket{name: uncategorized}
			}
			noCategory.value += amount
			continue
		}

		b, ok := revenue[*row.CategoryID]
		if !ok {
			name, known := names[*row.CategoryID]
			if !known {
				name = uncategorized
			}
			b = &bucket{name: name}
			revenue[*row.CategoryID] = b
		}
		b.value += amount
	}

	result := make([]CategoryRevenue, 0, len(revenue)+1)
	for _, b := range revenue {
		result = append(result, CategoryRevenue{Name: b.name, Value: roundInt(b.value)})
	}
	if noCategory != nil {
		result = append(result, CategoryRevenue{Name: noCategory.name, Value: roundInt(noCategory.value)})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result
}

// CustomerAcquisition — новые против вернувшихся клиентов по последним 12
// месяцам. Первый заказ клиента определяется по порядку created_at, выборка
// отсортирована на стороне базы.
func (s *Service) CustomerAcquisition(ctx context.Context) []AcquisitionPoint {
	rows, err := s.orders.ListUserOrders(ctx)
	if err != nil {
		s.log.Error("customer acquisition: failed to fetch orders", zap.Error(err))
		return []AcquisitionPoint{}
	}

	firstOrder := make(map[uuid.UUID]time.Time)
	for _, row := range rows {
		if row.UserID == nil {
			continue
		}
		if _, ok := firstOrder[*row.UserID]; !ok {
			firstOrder[*row.UserID] = row.CreatedAt
		}
	}

	result := make([]AcquisitionPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		start, end := monthBounds(s.now(), -i)

		monthCustomers := make(map[uuid.UUID]struct{})
		for _, row := range rows {
			if row.UserID == nil {
				continue
			}
			if !row.CreatedAt.Before(start) && !row.CreatedAt.After(end) {
				monthCustomers[*row.UserID] = struct{}{}
			}
		}

		var newCount, returningCount int
		for id := range monthCustomers {
			first := firstOrder[id]
			if !first.Before(start) && !first.After(end) {
				newCount++
			} else {
				returningCount++
			}
		}

		result = append(result, AcquisitionPoint{
			Month:     start.Format("Jan"),
			New:       newCount,
			Returning: returningCount,
		})
	}

	return result
}

// SalesSummaryReport — итоги текущего месяца против предыдущего. При нулевом
// предыдущем периоде процент изменения — сентинель 100, а не деление на ноль.
func (s *Service) SalesSummaryReport(ctx context.Context) SalesSummary {
	fallback := SalesSummary{SalesPercentChange: "0.0", AOVPercentChange: "0.0"}

	curStart, curEnd := monthBounds(s.now(), 0)
	prevStart, prevEnd := monthBounds(s.now(), -1)

	current, err := s.orders.ListTotalsInRange(ctx, curStart, curEnd, models.RevenueStatuses)
	if err != nil {
		s.log.Error("sales summary: failed to fetch current month", zap.Error(err))
		return fallback
	}
	previous, err := s.orders.ListTotalsInRange(ctx, prevStart, prevEnd, models.RevenueStatuses)
	if err != nil {
		s.log.Error("sales summary: failed to fetch previous month", zap.Error(err))
		return fallback
	}

	var curSales, prevSales float64
	for _, o := range current {
		curSales += o.Total
	}
	for _, o := range previous {
		prevSales += o.Total
	}

	salesChange := percentChange(curSales, prevSales)

	var curAOV, prevAOV float64
	if len(current) > 0 {
		curAOV = curSales / float64(len(current))
	}
	if len(previous) > 0 {
		prevAOV = prevSales / float64(len(previous))
	}
	aovChange := percentChange(curAOV, prevAOV)

	return SalesSummary{
		TotalSales:         roundInt(curSales),
		SalesPercentChange: formatPercent(salesChange),
		AverageOrderValue:  round2(curAOV),
		AOVPercentChange:   formatPercent(aovChange),
		// Заглушка: сессии не трекаются, см. комментарий к типу.
		ConversionRate:          5.2,
		ConversionPercentChange: 0.7,
	}
}

// CustomerInsightsReport — общая клиентская статистика по всем заказам.
func (s *Service) CustomerInsightsReport(ctx context.Context) CustomerInsights {
	rows, err := s.orders.ListUserOrders(ctx)
	if err != nil {
		s.log.Error("customer insights: failed to fetch orders", zap.Error(err))
		return CustomerInsights{}
	}

	currentMonth := s.now().Format("2006-01")

	orderCounts := make(map[uuid.UUID]int)
	mtd := make(map[uuid.UUID]struct{})
	var totalRevenue float64

	for _, row := range rows {
		if row.UserID == nil {
			continue
		}
		orderCounts[*row.UserID]++
		totalRevenue += row.Total
		if row.CreatedAt.Format("2006-01") == currentMonth {
			mtd[*row.UserID] = struct{}{}
		}
	}

	totalCustomers := len(orderCounts)

	var repeatCustomers int
	for _, n := range orderCounts {
		if n > 1 {
			repeatCustomers++
		}
	}

	var repeatRate int
	var clv float64
	if totalCustomers > 0 {
		repeatRate = roundInt(float64(repeatCustomers) / float64(totalCustomers) * 100)
		clv = round2(totalRevenue / float64(totalCustomers))
	}

	return CustomerInsights{
		TotalCustomers:        totalCustomers,
		NewCustomersMTD:       len(mtd),
		RepeatPurchaseRate:    repeatRate,
		CustomerLifetimeValue: clv,
	}
}

// CustomerSegmentsReport — сегментация клиентов по числу заказов за всё время:
// New(1) / Occasional(2–3) / Regular(4–6) / VIP(7+). Когда заказов нет вообще,
// отдаётся фиксированное иллюстративное распределение — дашборд ожидает
// именно его, менять значения нельзя.
func (s *Service) CustomerSegmentsReport(ctx context.Context) CustomerSegments {
	rows, err := s.orders.ListUserOrders(ctx)
	if err != nil {
		s.log.Error("customer segments: failed to fetch orders", zap.Error(err))
		return fallbackSegments()
	}

	orderCounts := make(map[uuid.UUID]int)
	spent := make(map[uuid.UUID]float64)
	for _, row := range rows {
		if row.UserID == nil {
			continue
		}
		orderCounts[*row.UserID]++
		spent[*row.UserID] += row.Total
	}

	var newCustomers, occasional, regular, vip int
	var vipRevenue, totalRevenue float64

	for id, n := range orderCounts {
		totalRevenue += spent[id]
		switch {
		case n == 1:
			newCustomers++
		case n <= 3:
			occasional++
		case n <= 6:
			regular++
		default:
			vip++
			vipRevenue += spent[id]
		}
	}

	all := []SegmentSlice{
		{Name: "New", Value: newCustomers},
		{Name: "Occasional", Value: occasional},
		{Name: "Regular", Value: regular},
		{Name: "VIP", Value: vip},
	}
	segments := make([]SegmentSlice, 0, len(all))
	for _, seg := range all {
		if seg.Value > 0 {
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return fallbackSegments()
	}

	totalCustomers := newCustomers + occasional + regular + vip
	stats := VIPStats{
		Percentage: roundInt(float64(vip) / float64(totalCustomers) * 100),
	}
	if totalRevenue > 0 {
		stats.RevenuePercentage = roundInt(vipRevenue / totalRevenue * 100)
	}

	return CustomerSegments{Segments: segments, VIPStats: stats}
}

// Dashboard собирает все семь отчётов параллельно. Каждый отчёт сам
// защищается своим значением по умолчанию, поэтому сборка не может упасть.
func (s *Service) Dashboard(ctx context.Context) DashboardData {
	var data DashboardData

	var wg sync.WaitGroup
	wg.Add(7)

	go func() { defer wg.Done(); data.SalesData = s.MonthlySales(ctx) }()
	go func() { defer wg.Done(); data.ProductPerformanceData = s.ProductPerformance(ctx, DefaultTopProductLimit) }()
	go func() { defer wg.Done(); data.CategoryData = s.CategoryDistribution(ctx) }()
	go func() { defer wg.Done(); data.CustomerData = s.CustomerAcquisition(ctx) }()
	go func() { defer wg.Done(); data.SalesSummary = s.SalesSummaryReport(ctx) }()
	go func() { defer wg.Done(); data.CustomerInsights = s.CustomerInsightsReport(ctx) }()
	go func() { defer wg.Done(); data.CustomerSegments = s.CustomerSegmentsReport(ctx) }()

	wg.Wait()
	return data
}

func fallbackSegments() CustomerSegments {
	return CustomerSegments{
		Segments: []SegmentSlice{
			{Name: "New", Value: 30},
			{Name: "Occasional", Value: 25},
			{Name: "Regular", Value: 35},
			{Name: "VIP", Value: 10},
		},
		VIPStats: VIPStats{Percentage: 10, RevenuePercentage: 42},
	}
}

// syntheticPercentChange: прирост 0–15% либо падение 0–10%, одна цифра после
// запятой. Случайная синтетика вместо реальной истории.
func (s *Service) syntheticPercentChange() float64 {
	if s.rand() > 0.5 {
		return math.Round(s.rand()*15*10) / 10
	}
	return -math.Round(s.rand()*10*10) / 10
}

// monthBounds возвращает границы календарного месяца со сдвигом offset
// относительно t (0 — текущий, -1 — предыдущий).
func monthBounds(t time.Time, offset int) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	start := first.AddDate(0, offset, 0)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// percentChange с сентинелем: нулевой прошлый период — всегда 100%.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 100
	}
	return (current - previous) / previous * 100
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
