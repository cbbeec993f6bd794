package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía.
// nuevo = (existencia*costoActual + entrada*costoEntrada) / (existencia + entrada)
// Una existencia negativa (ventas en backorder) no pondera: el costo pasa a ser el de la entrada.
func WeightedAverageCost(stock int64, currentCost decimal.Decimal, incoming int64, incomingCost decimal.Decimal) decimal.Decimal {
	if incoming <= 0 {
		return currentCost
	}
	if stock <= 0 {
		return incomingCost
	}
	s := decimal.NewFromInt(stock)
	in := decimal.NewFromInt(incoming)
	num := s.Mul(currentCost).Add(in.Mul(incomingCost))
	return num.DivRound(s.Add(in), 4)
}
