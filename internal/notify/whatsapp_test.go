package notify

import (
	"strings"
	"testing"

	"peptide-store/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatPHP(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₱0.00"},
		{150, "₱150.00"},
		{4850, "₱4,850.00"},
		{1234567.5, "₱1,234,567.50"},
		{999.99, "₱999.99"},
		{1000, "₱1,000.00"},
		{-300, "-₱300.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPHP(tt.amount))
		})
	}
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:       42,
		FullName: "Juan dela Cruz",
		Address:  "123 Mabini St", Barangay: "Poblacion",
		City: "Batangas City", State: "Batangas", ZipCode: "4200",
		ShippingLocation:  "luzon",
		ShippingFee:       150,
		Subtotal:          5000,
		DiscountApplied:   300,
		TotalPrice:        4700,
		PromoCode:         "SAVE10",
		PaymentMethodName: "GCash",
		Items: []models.OrderItem{
			{Name: "BPC-157 5mg", Quantity: 2, UnitPrice: 2500, LineTotal: 5000},
		},
	}
}

func TestOrderSummary(t *testing.T) {
	summary := OrderSummary(sampleOrder())

	assert.Contains(t, summary, "order #42")
	assert.Contains(t, summary, "BPC-157 5mg x2 @ ₱2,500.00 = ₱5,000.00")
	assert.Contains(t, summary, "Subtotal: ₱5,000.00")
	assert.Contains(t, summary, "Discount (SAVE10): -₱300.00")
	assert.Contains(t, summary, "Shipping (luzon): ₱150.00")
	assert.Contains(t, summary, "TOTAL: ₱4,850.00")
	assert.Contains(t, summary, "Payment: GCash")
	assert.Contains(t, summary, "123 Mabini St, Poblacion, Batangas City, Batangas 4200")
}

func TestOrderSummaryWithoutPromo(t *testing.T) {
	order := sampleOrder()
	order.PromoCode = ""
	order.DiscountApplied = 0
	order.TotalPrice = 5000

	summary := OrderSummary(order)
	assert.NotContains(t, summary, "Discount")
	assert.Contains(t, summary, "TOTAL: ₱5,150.00")
}

func TestOrderSummaryPenType(t *testing.T) {
	order := sampleOrder()
	order.Items[0].PenType = "disposable"

	summary := OrderSummary(order)
	assert.Contains(t, summary, "BPC-157 5mg (disposable pen) x2")
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("639171234567", "order #42\nTOTAL: ₱4,850.00")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/639171234567?text="), link)
	// The message is URL-encoded: no raw spaces or newlines survive
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "\n")
}
