package server

import (
	"fmt"
	"strings"

	html "github.com/gofiber/template/html/v2"

	"hospot/internal/domain"
)

var paymentLabels = map[string]string{
	domain.PayCashOnDelivery: "Cash on Delivery",
	domain.PayCard:           "Credit/Debit Card",
	domain.PayUPI:            "UPI Payment",
}

// Templates loads the page templates under dir with the view helpers registered.
func Templates(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("money", func(f float64) string { return fmt.Sprintf("$%.2f", f) })
	engine.AddFunc("orderStatus", domain.OrderStatusLabel)
	engine.AddFunc("payment", func(m string) string {
		if l, ok := paymentLabels[m]; ok {
			return l
		}
		return m
	})
	engine.AddFunc("beds", func(b domain.BedAvailability, bedType string) int { return b.Of(bedType) })
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("same", func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) })
	engine.AddFunc("short", func(id string) string {
		if len(id) > 8 {
			return strings.ToUpper(id[:8])
		}
		return strings.ToUpper(id)
	})
	return engine
}
