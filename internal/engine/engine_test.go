package engine

import (
	"bytes"
	"errors"
	"testing"

	"go_rates_converter/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(rates ...string) models.RateSnapshot {
	currencies := make([]models.Currency, 0, len(rates)/2)
	for i := 0; i+1 < len(rates); i += 2 {
		currencies = append(currencies, models.Currency{Code: rates[i], RateToBase: d(rates[i+1])})
	}
	return models.NewRateSnapshot("EUR", currencies)
}

func defaultSnapshot() models.RateSnapshot {
	return snapshot("PLN", "1.0", "HUF", "2.0", "ILS", "0.5")
}

type recorder struct {
	updates []Update
}

func (r *recorder) OnUpdate(update Update) {
	r.updates = append(r.updates, update)
}

func (r *recorder) last() Update {
	return r.updates[len(r.updates)-1]
}

func newLoadedEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	e := New(logrus.NewEntry(logrus.New()))
	rec := &recorder{}
	e.Subscribe(rec)
	require.NoError(t, e.UpdateRates(defaultSnapshot()))
	return e, rec
}

func displays(view View) map[string]string {
	result := make(map[string]string, len(view.Rows))
	for _, row := range view.Rows {
		result[row.Code] = row.Display
	}
	return result
}

func TestEngineStartsLoading(t *testing.T) {
	e := New(logrus.NewEntry(logrus.New()))

	assert.False(t, e.Loaded())
	assert.Nil(t, e.State())
	_, ok := e.View()
	assert.False(t, ok)

	// до загрузки ввод игнорируется, выбор валюты невозможен
	e.SetActiveAmount("100")
	assert.Nil(t, e.State())
	assert.ErrorIs(t, e.SelectActive("PLN"), ErrNotLoaded)
}

func TestFirstSnapshotInitializesState(t *testing.T) {
	e, rec := newLoadedEngine(t)

	state := e.State()
	require.NotNil(t, state)
	assert.Equal(t, "EUR", state.Base())
	assert.Equal(t, "EUR", state.Active())
	assert.Equal(t, []string{"EUR", "PLN", "HUF", "ILS"}, state.Order())
	for _, code := range state.Order() {
		assert.True(t, state.Amount(code).IsZero(), code)
	}

	require.Len(t, rec.updates, 1)
	assert.Equal(t, FullUpdate, rec.last().Kind)
	assert.Equal(t, []int{0, 1, 2, 3}, rec.last().Dirty)
	for _, row := range rec.last().View.Rows {
		assert.Equal(t, "", row.Display)
		assert.Equal(t, ZeroHint, row.Hint())
	}
}

func TestSetActiveAmountRecomputes(t *testing.T) {
	e, rec := newLoadedEngine(t)

	e.SetActiveAmount("100")

	state := e.State()
	assert.True(t, state.Amount("EUR").Equal(d("100")))
	assert.True(t, state.Amount("PLN").Equal(d("100.00")))
	assert.True(t, state.Amount("HUF").Equal(d("200.00")))
	assert.True(t, state.Amount("ILS").Equal(d("50.00")))

	update := rec.last()
	assert.Equal(t, AmountsUpdate, update.Kind)
	assert.Equal(t, []int{1, 2, 3}, update.Dirty)
	assert.Equal(t, map[string]string{"EUR": "100", "PLN": "100", "HUF": "200", "ILS": "50"}, displays(update.View))
}

func TestZeroOrInvalidAmountZeroesEverything(t *testing.T) {
	inputs := []string{"0", "", "   ", "abc", ".", "-5", "0.00"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			e, rec := newLoadedEngine(t)
			e.SetActiveAmount("100")

			e.SetActiveAmount(input)

			state := e.State()
			for _, code := range state.Order() {
				assert.True(t, state.Amount(code).IsZero(), code)
			}
			for _, row := range rec.last().View.Rows {
				assert.Equal(t, "", row.Display)
				assert.Equal(t, ZeroHint, row.Hint())
			}
		})
	}
}

func TestConversionRoutesThroughBase(t *testing.T) {
	e, _ := newLoadedEngine(t)
	require.NoError(t, e.SelectActive("HUF"))

	e.SetActiveAmount("123.45")

	state := e.State()
	activeInBase := state.Amount("HUF").Div(state.Rate("HUF"))
	for _, code := range state.Order() {
		inBase := state.Amount(code).Div(state.Rate(code))
		assert.True(t, inBase.Round(2).Equal(activeInBase.Round(2)), code)
	}
	assert.True(t, state.Amount("EUR").Equal(d("61.725")))
	assert.True(t, state.Amount("ILS").Equal(d("30.8625")))
}

func TestUpdateRatesKeepsOrderAndActiveAmount(t *testing.T) {
	e, rec := newLoadedEngine(t)
	require.NoError(t, e.SelectActive("ILS"))
	e.SetActiveAmount("10")

	require.NoError(t, e.UpdateRates(snapshot("PLN", "4", "HUF", "300", "ILS", "2")))

	state := e.State()
	assert.Equal(t, []string{"ILS", "EUR", "PLN", "HUF"}, state.Order())
	assert.True(t, state.Amount("ILS").Equal(d("10")))
	assert.True(t, state.Amount("EUR").Equal(d("5")))
	assert.True(t, state.Amount("PLN").Equal(d("20")))
	assert.True(t, state.Amount("HUF").Equal(d("1500")))
	assert.Equal(t, FullUpdate, rec.last().Kind)
}

func TestUpdateRatesIsIdempotent(t *testing.T) {
	e, _ := newLoadedEngine(t)
	e.SetActiveAmount("77.7")

	require.NoError(t, e.UpdateRates(snapshot("PLN", "4.3", "HUF", "330.12", "ILS", "3.9")))
	first, _ := e.View()
	require.NoError(t, e.UpdateRates(snapshot("PLN", "4.3", "HUF", "330.12", "ILS", "3.9")))
	second, _ := e.View()

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Code, second.Rows[i].Code)
		assert.True(t, first.Rows[i].Amount.Equal(second.Rows[i].Amount))
		assert.Equal(t, first.Rows[i].Display, second.Rows[i].Display)
	}
}

func TestUpdateRatesAppendsNewAndKeepsMissingCurrencies(t *testing.T) {
	e, _ := newLoadedEngine(t)
	e.SetActiveAmount("10")

	require.NoError(t, e.UpdateRates(snapshot("PLN", "4", "USD", "1.1")))

	state := e.State()
	assert.Equal(t, []string{"EUR", "PLN", "HUF", "ILS", "USD"}, state.Order())
	assert.True(t, state.Rate("HUF").Equal(d("2")), "missing currency keeps its stale rate")
	assert.True(t, state.Amount("USD").Equal(d("11")))
	assert.True(t, state.Amount("HUF").Equal(d("20")))
}

func TestStaleCount(t *testing.T) {
	order := []string{"EUR", "PLN", "HUF", "ILS"}

	tests := []struct {
		name     string
		snapshot models.RateSnapshot
		expected int
	}{
		{"All present", defaultSnapshot(), 0},
		{"Added and omitted", snapshot("PLN", "4", "ILS", "0.5", "USD", "1.1"), 1},
		{"Only base", snapshot(), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, staleCount(order, tt.snapshot))
		})
	}
}

func TestUpdateRatesLogsOmittedCurrencies(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.DebugLevel)

	e := New(logger.WithField("component", "engine"))
	require.NoError(t, e.UpdateRates(defaultSnapshot()))
	buf.Reset()

	// USD добавлен, HUF пропал: размер снимка не изменился
	require.NoError(t, e.UpdateRates(snapshot("PLN", "4", "ILS", "0.5", "USD", "1.1")))

	assert.Contains(t, buf.String(), `"stale":1`)
	assert.Contains(t, buf.String(), `"component":"engine"`)
}

func TestUpdateRatesWithoutBaseIsFatal(t *testing.T) {
	e, _ := newLoadedEngine(t)
	before := e.State()

	other := models.NewRateSnapshot("USD", []models.Currency{{Code: "EUR", RateToBase: d("0.9")}})
	err := e.UpdateRates(other)

	assert.True(t, errors.Is(err, ErrBaseMissing))
	assert.Same(t, before, e.State())
}

func TestUpdateRatesRejectsInvalidSnapshot(t *testing.T) {
	e := New(logrus.NewEntry(logrus.New()))

	err := e.UpdateRates(snapshot("PLN", "0"))

	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.False(t, e.Loaded())
}

func TestSelectActive(t *testing.T) {
	e, rec := newLoadedEngine(t)
	e.SetActiveAmount("100")
	amountsBefore := e.State()

	require.NoError(t, e.SelectActive("HUF"))

	state := e.State()
	assert.Equal(t, []string{"HUF", "EUR", "PLN", "ILS"}, state.Order())
	for _, code := range state.Order() {
		assert.True(t, amountsBefore.Amount(code).Equal(state.Amount(code)), code)
	}
	assert.Equal(t, OrderUpdate, rec.last().Kind)
	assert.Equal(t, []int{0, 1, 2, 3}, rec.last().Dirty)
	assert.True(t, rec.last().View.Rows[0].Active)
	assert.Equal(t, "HUF", rec.last().View.Rows[0].Code)

	// новый ввод считается от новой активной валюты
	e.SetActiveAmount("10")
	assert.True(t, e.State().Amount("EUR").Equal(d("5")))
}

func TestSelectActiveOnActiveIsNoop(t *testing.T) {
	e, rec := newLoadedEngine(t)
	count := len(rec.updates)
	before := e.State()

	require.NoError(t, e.SelectActive("EUR"))

	assert.Same(t, before, e.State())
	assert.Len(t, rec.updates, count)
}

func TestSelectActiveUnknownCurrency(t *testing.T) {
	e, _ := newLoadedEngine(t)

	err := e.SelectActive("XYZ")

	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.Equal(t, "EUR", e.State().Active())
}

func TestSelectActivePreservesRelativeOrder(t *testing.T) {
	codes := []string{"EUR", "PLN", "HUF", "ILS"}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			e, _ := newLoadedEngine(t)
			require.NoError(t, e.SelectActive(code))

			order := e.State().Order()
			assert.Equal(t, code, order[0])

			var rest []string
			for _, c := range codes {
				if c != code {
					rest = append(rest, c)
				}
			}
			assert.Equal(t, rest, order[1:])
		})
	}
}

func TestStatesAreImmutable(t *testing.T) {
	e, _ := newLoadedEngine(t)
	before := e.State()
	order := before.Order()
	order[0] = "XXX"

	e.SetActiveAmount("100")

	assert.Equal(t, "EUR", before.Active())
	assert.True(t, before.Amount("HUF").IsZero())
	assert.True(t, e.State().Amount("HUF").Equal(d("200")))
}

func TestRestore(t *testing.T) {
	e, rec := newLoadedEngine(t)

	require.NoError(t, e.Restore([]string{"ILS", "GBP", "PLN", "ILS"}, d("5")))

	state := e.State()
	assert.Equal(t, []string{"ILS", "PLN", "EUR", "HUF"}, state.Order())
	assert.True(t, state.Amount("ILS").Equal(d("5")))
	assert.True(t, state.Amount("EUR").Equal(d("10")))
	assert.Equal(t, FullUpdate, rec.last().Kind)
}

func TestRestoreBeforeLoad(t *testing.T) {
	e := New(logrus.NewEntry(logrus.New()))
	assert.ErrorIs(t, e.Restore([]string{"EUR"}, d("1")), ErrNotLoaded)
}

func TestObserverFunc(t *testing.T) {
	e := New(logrus.NewEntry(logrus.New()))
	var kinds []UpdateKind
	e.Subscribe(ObserverFunc(func(u Update) { kinds = append(kinds, u.Kind) }))

	require.NoError(t, e.UpdateRates(defaultSnapshot()))
	e.SetActiveAmount("1")
	require.NoError(t, e.SelectActive("PLN"))

	assert.Equal(t, []UpdateKind{FullUpdate, AmountsUpdate, OrderUpdate}, kinds)
}
