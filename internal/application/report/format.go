package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formato pt-BR: separador de miles "." y decimal ",".
var locale = language.BrazilianPortuguese

// FormatMoney devuelve "R$ 1.125,00".
func FormatMoney(d decimal.Decimal) string {
	return "R$ " + FormatDecimal(d, 2)
}

// FormatDecimal formatea d con places decimales al estilo pt-BR.
func FormatDecimal(d decimal.Decimal, places int32) string {
	p := message.NewPrinter(locale)
	return p.Sprintf(fmt.Sprintf("%%.%df", places), d.Round(places).InexactFloat64())
}

// FormatQuantity muestra enteros sin decimales y fracciones con hasta 3 decimales.
func FormatQuantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return message.NewPrinter(locale).Sprintf("%d", d.IntPart())
	}
	places := -d.Exponent()
	if places > 3 {
		places = 3
	}
	return FormatDecimal(d, places)
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// DateLabel "10 de março de 2026".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatDate "10/03/2026".
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
