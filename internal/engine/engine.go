package engine

import (
	"errors"
	"fmt"
	"strings"

	"go_rates_converter/internal/models"
	"go_rates_converter/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// Снимок не содержит ранее установленную базовую валюту. Ошибка контракта источника курсов.
	ErrBaseMissing = errors.New("rate snapshot is missing the established base currency")
	// Снимок нарушает инварианты (курсы <= 0, база не первая и т.п.)
	ErrInvalidSnapshot = errors.New("invalid rate snapshot")
	// Валюта не отслеживается
	ErrUnknownCurrency = errors.New("unknown currency")
	// Курсы ещё не получены
	ErrNotLoaded = errors.New("rates are not loaded yet")
)

// Engine хранит порядок валют, суммы и курсы и пересчитывает суммы при изменениях.
// Engine не потокобезопасен: все вызовы должны выполняться из одной горутины.
type Engine struct {
	state     *State
	observers []Observer
	logger    *logrus.Entry
}

// Создаём движок без состояния ("загрузка")
func New(logger *logrus.Entry) *Engine {
	return &Engine{
		logger: logger,
	}
}

// Subscribe добавляет наблюдателя
func (e *Engine) Subscribe(observer Observer) {
	e.observers = append(e.observers, observer)
}

// State возвращает текущее состояние или nil, если курсы ещё не получены
func (e *Engine) State() *State {
	return e.state
}

// Loaded сообщает, получен ли первый снимок курсов
func (e *Engine) Loaded() bool {
	return e.state != nil
}

// View возвращает снимок для отображения
func (e *Engine) View() (View, bool) {
	if e.state == nil {
		return View{}, false
	}
	return buildView(e.state), true
}

// UpdateRates применяет новый снимок курсов.
// Первый снимок задаёт порядок валют и нулевые суммы; последующие обновляют курсы по коду,
// добавляют новые валюты в конец и сохраняют валюты, отсутствующие в снимке, с прежним курсом.
func (e *Engine) UpdateRates(snapshot models.RateSnapshot) error {
	if e.state != nil {
		if _, ok := snapshot.Rates[e.state.base]; !ok || snapshot.Base != e.state.base {
			return fmt.Errorf("%w: expected %s, got %q", ErrBaseMissing, e.state.base, snapshot.Base)
		}
	}

	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if e.state == nil {
		next := &State{
			base:    snapshot.Base,
			order:   append([]string(nil), snapshot.Codes...),
			amounts: make(map[string]decimal.Decimal, len(snapshot.Codes)),
			rates:   make(map[string]decimal.Decimal, len(snapshot.Codes)),
		}
		for _, c := range snapshot.Currencies() {
			next.amounts[c.Code] = decimal.Zero
			next.rates[c.Code] = c.RateToBase
		}

		e.logger.WithFields(logrus.Fields{
			"base":       snapshot.Base,
			"currencies": len(next.order),
		}).Info("Initial rates received")

		e.state = next
		e.notify(FullUpdate, indexRange(0, len(next.order)))
		return nil
	}

	next := e.state.clone()
	added := 0
	for _, code := range snapshot.Codes {
		if _, tracked := next.rates[code]; !tracked {
			next.order = append(next.order, code)
			next.amounts[code] = decimal.Zero
			added++
		}
		next.rates[code] = snapshot.Rates[code]
	}

	if stale := staleCount(next.order, snapshot); stale > 0 {
		e.logger.WithField("stale", stale).Debug("Snapshot omitted tracked currencies, keeping previous rates")
	}

	if err := recompute(next); err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"active": next.Active(),
		"added":  added,
	}).Debug("Rates updated")

	e.state = next
	e.notify(FullUpdate, indexRange(0, len(next.order)))
	return nil
}

// SetActiveAmount задаёт сумму активной валюты из введённого текста.
// Пустой или некорректный текст считается нулём.
func (e *Engine) SetActiveAmount(raw string) {
	if e.state == nil {
		e.logger.Debug("Amount ignored, rates are not loaded yet")
		return
	}

	amount := ParseAmount(raw)

	next := e.state.clone()
	next.amounts[next.Active()] = amount
	if err := recompute(next); err != nil {
		// ключи курсов и сумм совпадают, сюда попасть нельзя
		e.logger.WithError(err).Error("Failed to recompute amounts")
		return
	}

	e.state = next
	e.notify(AmountsUpdate, indexRange(1, len(next.order)))
}

// SelectActive делает валюту code активной, перемещая её в начало списка.
// Суммы не пересчитываются: перестановка их не меняет.
func (e *Engine) SelectActive(code string) error {
	if e.state == nil {
		return ErrNotLoaded
	}

	index := e.state.indexOf(code)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	if index == 0 {
		return nil
	}

	next := e.state.clone()
	next.order = moveToFront(next.order, index)

	e.logger.WithFields(logrus.Fields{
		"currency": code,
		"from":     index,
	}).Debug("Currency selected as active")

	e.state = next
	e.notify(OrderUpdate, indexRange(0, len(next.order)))
	return nil
}

// Restore восстанавливает сохранённый порядок валют и сумму активной валюты.
// Неизвестные коды пропускаются, валюты, которых нет в сохранённом порядке, идут следом.
func (e *Engine) Restore(order []string, amount decimal.Decimal) error {
	if e.state == nil {
		return ErrNotLoaded
	}

	next := e.state.clone()
	restored := make([]string, 0, len(next.order))
	seen := make(map[string]bool, len(next.order))
	for _, code := range order {
		if _, tracked := next.rates[code]; tracked && !seen[code] {
			restored = append(restored, code)
			seen[code] = true
		}
	}
	for _, code := range next.order {
		if !seen[code] {
			restored = append(restored, code)
		}
	}
	next.order = restored

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	for code := range next.amounts {
		next.amounts[code] = decimal.Zero
	}
	next.amounts[next.Active()] = amount
	if err := recompute(next); err != nil {
		return err
	}

	e.logger.WithField("active", next.Active()).Info("Session restored")

	e.state = next
	e.notify(FullUpdate, indexRange(0, len(next.order)))
	return nil
}

// ParseAmount разбирает введённую сумму; пустой, некорректный или отрицательный текст даёт ноль
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Пересчитываем суммы всех неактивных валют через базовую валюту
func recompute(s *State) error {
	active := s.Active()
	activeAmount := s.amounts[active]

	if activeAmount.IsZero() {
		for code := range s.amounts {
			s.amounts[code] = decimal.Zero
		}
		return nil
	}

	for _, code := range s.order[1:] {
		amount, err := utils.ConvertAmount(activeAmount, active, code, s.rates)
		if err != nil {
			return fmt.Errorf("recompute %s: %w", code, err)
		}
		s.amounts[code] = amount
	}
	return nil
}

// Сколько отслеживаемых валют нет в снимке
func staleCount(order []string, snapshot models.RateSnapshot) int {
	stale := 0
	for _, code := range order {
		if _, ok := snapshot.Rate(code); !ok {
			stale++
		}
	}
	return stale
}

func moveToFront(order []string, index int) []string {
	result := make([]string, 0, len(order))
	result = append(result, order[index])
	result = append(result, order[:index]...)
	result = append(result, order[index+1:]...)
	return result
}

func (e *Engine) notify(kind UpdateKind, dirty []int) {
	if len(e.observers) == 0 {
		return
	}
	for _, observer := range e.observers {
		observer.OnUpdate(Update{
			Kind:  kind,
			View:  buildView(e.state),
			Dirty: append([]int(nil), dirty...),
		})
	}
}
