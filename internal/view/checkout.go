package view

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

const checkoutGreeting = "Olá! Gostaria de finalizar meu pedido na Paty Modas:"

// CheckoutMessage is the order text handed to WhatsApp.
func CheckoutMessage(items []model.CartItem) string {
	var b strings.Builder
	b.WriteString(checkoutGreeting)
	b.WriteString("\n\n")

	total := decimal.Zero
	for _, it := range items {
		sub := it.Subtotal()
		total = total.Add(sub)
		fmt.Fprintf(&b, "*%dx %s* - R$ %s\n", it.Quantity, it.Name, FormatAmount(sub))
	}
	fmt.Fprintf(&b, "\n*Total: %s*", FormatBRL(total))
	return b.String()
}

// CheckoutURL builds the wa.me link. Non-digits in phone are ignored and an
// empty phone lets the user pick the chat.
func CheckoutURL(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	// spaces as %20, like encodeURIComponent
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text
}

// Checkout returns the hand-off link, or false for an empty cart.
func Checkout(phone string, items []model.CartItem) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	return CheckoutURL(phone, CheckoutMessage(items)), true
}
