package engine

import (
	"github.com/shopspring/decimal"
)

// State — неизменяемое состояние конвертера.
// Каждое изменение создаёт новый State, старый остаётся валидным у тех, кто его получил.
type State struct {
	base    string
	order   []string
	amounts map[string]decimal.Decimal
	rates   map[string]decimal.Decimal
}

// Base возвращает базовую валюту курсов
func (s *State) Base() string {
	return s.base
}

// Active возвращает код активной валюты
func (s *State) Active() string {
	return s.order[0]
}

// Order возвращает копию порядка валют
func (s *State) Order() []string {
	return append([]string(nil), s.order...)
}

// Amount возвращает сумму в валюте code
func (s *State) Amount(code string) decimal.Decimal {
	return s.amounts[code]
}

// Rate возвращает курс валюты code к базовой
func (s *State) Rate(code string) decimal.Decimal {
	return s.rates[code]
}

// Len возвращает количество валют
func (s *State) Len() int {
	return len(s.order)
}

func (s *State) clone() *State {
	next := &State{
		base:    s.base,
		order:   append([]string(nil), s.order...),
		amounts: make(map[string]decimal.Decimal, len(s.amounts)),
		rates:   make(map[string]decimal.Decimal, len(s.rates)),
	}
	for code, amount := range s.amounts {
		next.amounts[code] = amount
	}
	for code, rate := range s.rates {
		next.rates[code] = rate
	}
	return next
}

func (s *State) indexOf(code string) int {
	for i, c := range s.order {
		if c == code {
			return i
		}
	}
	return -1
}
