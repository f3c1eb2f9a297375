package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Точность деления: 34 знака, как у DECIMAL128
const DivisionPrecision = 34

// Вычисляем курс валютной пары используя курсы относительно базовой валюты
func CalculateExchangeRate(from, to string, baseRates map[string]decimal.Decimal) (decimal.Decimal, error) {
	fromRate, toRate, err := pairRates(from, to, baseRates)
	if err != nil {
		return decimal.Zero, err
	}

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	return toRate.DivRound(fromRate, DivisionPrecision), nil
}

// Переводим сумму из одной валюты в другую через базовую валюту:
// amount / rate(from) * rate(to)
func ConvertAmount(amount decimal.Decimal, from, to string, baseRates map[string]decimal.Decimal) (decimal.Decimal, error) {
	fromRate, toRate, err := pairRates(from, to, baseRates)
	if err != nil {
		return decimal.Zero, err
	}

	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if from == to {
		return amount, nil
	}

	inBase := amount.DivRound(fromRate, DivisionPrecision)
	return inBase.Mul(toRate), nil
}

func pairRates(from, to string, baseRates map[string]decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	fromRate, fromExists := baseRates[from]
	if !fromExists {
		return decimal.Zero, decimal.Zero, fmt.Errorf("currency %s not found in rates", from)
	}

	toRate, toExists := baseRates[to]
	if !toExists {
		return decimal.Zero, decimal.Zero, fmt.Errorf("currency %s not found in rates", to)
	}

	if !fromRate.IsPositive() || !toRate.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("rates for %s/%s must be positive", from, to)
	}

	return fromRate, toRate, nil
}
