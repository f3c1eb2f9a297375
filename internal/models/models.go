package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Валюта с курсом относительно базовой
type Currency struct {
	Code       string          `json:"code"`
	RateToBase decimal.Decimal `json:"rate"`
}

// Снимок курсов: базовая валюта всегда первая и имеет курс 1
type RateSnapshot struct {
	Base  string
	Codes []string
	Rates map[string]decimal.Decimal
}

// Создаём снимок из упорядоченного списка валют
func NewRateSnapshot(base string, currencies []Currency) RateSnapshot {
	snapshot := RateSnapshot{
		Base:  base,
		Codes: make([]string, 0, len(currencies)+1),
		Rates: make(map[string]decimal.Decimal, len(currencies)+1),
	}
	snapshot.Codes = append(snapshot.Codes, base)
	snapshot.Rates[base] = decimal.NewFromInt(1)

	for _, c := range currencies {
		if c.Code == base {
			continue
		}
		if _, exists := snapshot.Rates[c.Code]; !exists {
			snapshot.Codes = append(snapshot.Codes, c.Code)
		}
		snapshot.Rates[c.Code] = c.RateToBase
	}
	return snapshot
}

// Rate возвращает курс валюты
func (s RateSnapshot) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := s.Rates[code]
	return rate, ok
}

// Currencies возвращает валюты в порядке снимка
func (s RateSnapshot) Currencies() []Currency {
	result := make([]Currency, 0, len(s.Codes))
	for _, code := range s.Codes {
		result = append(result, Currency{Code: code, RateToBase: s.Rates[code]})
	}
	return result
}

// Validate проверяет инварианты снимка
func (s RateSnapshot) Validate() error {
	if s.Base == "" {
		return fmt.Errorf("snapshot has no base currency")
	}
	if len(s.Codes) == 0 || s.Codes[0] != s.Base {
		return fmt.Errorf("base currency %s must be the first entry", s.Base)
	}
	if !s.Rates[s.Base].Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("base currency %s must have rate 1", s.Base)
	}
	if len(s.Codes) != len(s.Rates) {
		return fmt.Errorf("snapshot codes and rates differ in size")
	}
	for _, code := range s.Codes {
		rate, ok := s.Rates[code]
		if !ok {
			return fmt.Errorf("currency %s has no rate", code)
		}
		if !rate.IsPositive() {
			return fmt.Errorf("currency %s has non-positive rate %s", code, rate)
		}
	}
	return nil
}

// Курсы в порядке, в котором их вернул внешний API
type OrderedRates struct {
	Codes  []string
	Values map[string]decimal.Decimal
}

func (r *OrderedRates) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("rates must be a JSON object")
	}

	r.Codes = nil
	r.Values = make(map[string]decimal.Decimal)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		code, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in rates", tok)
		}

		var value decimal.Decimal
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("rate for %s: %w", code, err)
		}

		if _, exists := r.Values[code]; !exists {
			r.Codes = append(r.Codes, code)
		}
		r.Values[code] = value
	}

	// закрывающая скобка
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Ответ от внешнего API курсов
type RatesDTO struct {
	BaseCurrency string       `json:"baseCurrency"`
	Base         string       `json:"base"`
	Rates        OrderedRates `json:"rates"`
}

// BaseCode возвращает базовую валюту из любого из двух вариантов поля
func (d RatesDTO) BaseCode() string {
	if d.BaseCurrency != "" {
		return d.BaseCurrency
	}
	return d.Base
}

// Сохранённая пользовательская сессия: порядок валют и введённая сумма
type Session struct {
	ID           string          `json:"id" db:"id"`
	BaseCurrency string          `json:"base_currency" db:"base_currency"`
	Order        []string        `json:"order" db:"currency_order"`
	ActiveAmount decimal.Decimal `json:"active_amount" db:"active_amount"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Строка списка валют
type RateRow struct {
	Code    string `json:"code"`
	Rate    string `json:"rate"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
	Hint    string `json:"hint,omitempty"`
	Active  bool   `json:"active"`
}

// Состояние экрана конвертера
type ScreenResponse struct {
	Status  string    `json:"status"` // loading, loaded, error
	Offline bool      `json:"offline"`
	Input   string    `json:"input"`
	Cursor  int       `json:"cursor"`
	Rows    []RateRow `json:"rows"`
	Error   string    `json:"error,omitempty"`
}

// Ввод текста в поле активной валюты
type InsertRequest struct {
	Position int    `json:"position"`
	Text     string `json:"text" validate:"required"`
}

// Удаление текста из поля активной валюты
type DeleteRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Замена всего текста поля активной валюты
type AmountRequest struct {
	Value string `json:"value"`
}

// Ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
