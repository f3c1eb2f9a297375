package engine

import (
	"github.com/shopspring/decimal"
)

const (
	displayPlaces = 2
	// Подсказка в пустом поле
	ZeroHint = "0"
)

// Вид обновления для наблюдателей
type UpdateKind int

const (
	// Изменились курсы или состав валют: перерисовать всё
	FullUpdate UpdateKind = iota
	// Изменилась сумма активной валюты: перерисовать всё, кроме активной строки
	AmountsUpdate
	// Изменился порядок валют
	OrderUpdate
)

func (k UpdateKind) String() string {
	switch k {
	case FullUpdate:
		return "full"
	case AmountsUpdate:
		return "amounts"
	case OrderUpdate:
		return "order"
	default:
		return "unknown"
	}
}

// Row — строка списка валют
type Row struct {
	Code    string
	Rate    decimal.Decimal
	Amount  decimal.Decimal
	Display string
	Active  bool
}

// Hint возвращает подсказку для пустого поля
func (r Row) Hint() string {
	if r.Display == "" {
		return ZeroHint
	}
	return ""
}

// View — снимок состояния для отображения
type View struct {
	Rows []Row
}

// Update — уведомление наблюдателю. Dirty содержит индексы строк, которые нужно перерисовать.
type Update struct {
	Kind  UpdateKind
	View  View
	Dirty []int
}

// Observer получает уведомления об изменениях состояния
type Observer interface {
	OnUpdate(update Update)
}

// ObserverFunc позволяет использовать функцию как Observer
type ObserverFunc func(update Update)

func (f ObserverFunc) OnUpdate(update Update) {
	f(update)
}

// FormatAmount округляет сумму до 2 знаков (half-up) и убирает лишние нули.
// Сумма, округлённая до нуля, отображается пустой строкой.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(displayPlaces)
	if rounded.IsZero() {
		return ""
	}
	return rounded.String()
}

func buildView(s *State) View {
	rows := make([]Row, 0, len(s.order))
	for i, code := range s.order {
		amount := s.amounts[code]
		rows = append(rows, Row{
			Code:    code,
			Rate:    s.rates[code],
			Amount:  amount,
			Display: FormatAmount(amount),
			Active:  i == 0,
		})
	}
	return View{Rows: rows}
}

func indexRange(from, to int) []int {
	if from >= to {
		return []int{}
	}
	result := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		result = append(result, i)
	}
	return result
}
