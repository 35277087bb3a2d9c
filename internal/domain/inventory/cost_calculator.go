package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa el valor unitario medio ponderado (servicio de dominio).
// NuevoValor = ((StockActual * ValorActual) + (CantEntrada * ValorEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, valorActual, cantEntrada, valorEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(valorActual).Add(cantEntrada.Mul(valorEntrada))
	return num.Div(sum).Round(4)
}
