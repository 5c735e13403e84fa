package notify

import (
	"fmt"
	"net/url"
	"strings"

	"peptide-store/internal/models"
)

// FormatPHP renders an amount as Philippine pesos with comma grouping,
// e.g. 4850 -> "₱4,850.00".
func FormatPHP(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "₱" + b.String() + "." + parts[1]
}

// OrderSummary composes the human-readable message a customer sends the
// shop over WhatsApp after placing an order. This text is the sole
// "order submitted" notification channel - there is no email dispatch.
func OrderSummary(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi! I just placed order #%d.\n\n", order.ID)
	b.WriteString("ORDER SUMMARY\n")
	for _, item := range order.Items {
		name := item.Name
		if item.PenType != "" {
			name = fmt.Sprintf("%s (%s pen)", name, item.PenType)
		}
		fmt.Fprintf(&b, "- %s x%d @ %s = %s\n", name, item.Quantity, FormatPHP(item.UnitPrice), FormatPHP(item.LineTotal))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Subtotal: %s\n", FormatPHP(order.Subtotal))
	if order.DiscountApplied > 0 {
		fmt.Fprintf(&b, "Discount (%s): -%s\n", order.PromoCode, FormatPHP(order.DiscountApplied))
	}
	fmt.Fprintf(&b, "Shipping (%s): %s\n", order.ShippingLocation, FormatPHP(order.ShippingFee))
	fmt.Fprintf(&b, "TOTAL: %s\n\n", FormatPHP(order.TotalPrice+order.ShippingFee))

	fmt.Fprintf(&b, "Name: %s\n", order.FullName)
	fmt.Fprintf(&b, "Payment: %s (proof uploaded)\n", order.PaymentMethodName)
	fmt.Fprintf(&b, "Deliver to: %s, %s, %s, %s %s", order.Address, order.Barangay, order.City, order.State, order.ZipCode)

	return b.String()
}

// DeepLink builds the wa.me URL that opens a chat with the merchant,
// pre-filled with the order summary.
func DeepLink(number string, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
}
