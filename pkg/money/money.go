// Package money da formato de moneda (es-MX) a importes y lee importes capturados a mano.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-MX"))

// Format devuelve el importe con signo de pesos y dos decimales, ej. "$1,250.00".
func Format(amount decimal.Decimal) string {
	f := amount.Round(2).InexactFloat64()
	return printer.Sprintf("$%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Cents normaliza el importe a centavos. ok es falso si traía fracciones de centavo
// (ej. 49.995); NUMERIC(14,2) las redondearía y el saldo dejaría de cuadrar.
func Cents(amount decimal.Decimal) (decimal.Decimal, bool) {
	r := amount.Round(2)
	return r, r.Equal(amount)
}

// Parse lee un importe con o sin signo de pesos y separador de miles, ej. "$1,250.50".
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("importe vacío")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe %q inválido: %w", raw, err)
	}
	return d, nil
}
