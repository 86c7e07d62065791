package reports

// Формы результатов фиксированы — их читают готовые дашборды.

type MonthlySalesPoint struct {
	Month  string `json:"month"`
	Sales  int    `json:"sales"`
	Target int    `json:"target"`
}

type TopProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Sales         int     `json:"sales"` // штук продано
	PercentChange float64 `json:"percentChange"`
	Image         string  `json:"image"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
}

type CategoryRevenue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type AcquisitionPoint struct {
	Month     string `json:"month"`
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

type SalesSummary struct {
	TotalSales         int     `json:"totalSales"`
	SalesPercentChange string  `json:"salesPercentChange"`
	AverageOrderValue  float64 `json:"averageOrderValue"`
	AOVPercentChange   string  `json:"aovPercentChange"`
	// ConversionRate — фиксированная заглушка: трекинга сессий нет,
	// реальную конверсию считать не из чего. Сохраняем для совместимости.
	ConversionRate          float64 `json:"conversionRate"`
	ConversionPercentChange float64 `json:"conversionPercentChange"`
}

type CustomerInsights struct {
	TotalCustomers        int     `json:"totalCustomers"`
	NewCustomersMTD       int     `json:"newCustomersMTD"`
	RepeatPurchaseRate    int     `json:"repeatPurchaseRate"`
	CustomerLifetimeValue float64 `json:"customerLifetimeValue"`
}

type SegmentSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type VIPStats struct {
	Percentage        int `json:"percentage"`
	RevenuePercentage int `json:"revenuePercentage"`
}

type CustomerSegments struct {
	Segments []SegmentSlice `json:"segments"`
	VIPStats VIPStats       `json:"vipStats"`
}

type DashboardData struct {
	SalesData              []MonthlySalesPoint `json:"salesData"`
	ProductPerformanceData []TopProduct        `json:"productPerformanceData"`
	CategoryData           []CategoryRevenue   `json:"categoryData"`
	CustomerData           []AcquisitionPoint  `json:"customerData"`
	SalesSummary           SalesSummary        `json:"salesSummary"`
	CustomerInsights       CustomerInsights    `json:"customerInsights"`
	CustomerSegments       CustomerSegments    `json:"customerSegments"`
}
