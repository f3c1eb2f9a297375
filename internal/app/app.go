package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go_rates_converter/internal/database"
	"go_rates_converter/internal/engine"
	"go_rates_converter/internal/models"
	"go_rates_converter/internal/utils"
	"go_rates_converter/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Состояние экрана
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

var (
	// Повтор возможен только из состояния ошибки
	ErrRetryNotAllowed = errors.New("retry is only allowed after a failed first load")
	// Цикл событий не запущен или уже завершён
	ErrNotRunning = errors.New("converter is not running")
)

const (
	saveTimeout       = 5 * time.Second
	rateDisplayPlaces = 6
)

// Poller — источник результатов опроса курсов
type Poller interface {
	Start(ctx context.Context, base string) <-chan worker.Result
	Stop()
}

// Options — настройки сессии конвертера
type Options struct {
	BaseCurrency     string
	MaxDigits        int
	MaxDecimalDigits int
	// Идентификатор сессии в хранилище; пустой означает последнюю сессию для базовой валюты
	SessionID string
}

// App — сессия конвертера. Все изменения состояния выполняются в одной горутине (Run),
// остальные методы передают ей команды и ждут результата.
type App struct {
	engine *engine.Engine
	poller Poller
	store  database.SessionStore
	logger *logrus.Logger
	opts   Options

	commands chan command
	done     chan struct{}

	// Состояние ниже принадлежит горутине Run
	results   <-chan worker.Result
	runCtx    context.Context
	status    Status
	lastErr   error
	offline   bool
	field     *utils.Field
	cursor    int
	sessionID string
	view      engine.View

	mu     sync.RWMutex
	screen models.ScreenResponse
}

type command struct {
	apply func() error
	reply chan error
}

// Создаём сессию конвертера; store может быть nil, тогда сессия не сохраняется
func New(eng *engine.Engine, poller Poller, store database.SessionStore, logger *logrus.Logger, opts Options) *App {
	a := &App{
		engine:    eng,
		poller:    poller,
		store:     store,
		logger:    logger,
		opts:      opts,
		commands:  make(chan command),
		done:      make(chan struct{}),
		status:    StatusLoading,
		sessionID: opts.SessionID,
		field: utils.NewField(
			utils.NumericOnly(),
			utils.MaxTotalDigits(opts.MaxDigits),
			utils.MaxDecimalDigits(opts.MaxDecimalDigits),
		),
	}
	eng.Subscribe(a)
	a.publish()
	return a
}

// Run обрабатывает события до отмены ctx. Экран публикуется один раз после каждого события.
// connectivity может быть nil. Возвращает ошибку только при нарушении контракта источника курсов.
func (a *App) Run(ctx context.Context, connectivity <-chan bool) error {
	defer close(a.done)

	a.runCtx = ctx
	a.results = a.poller.Start(ctx, a.opts.BaseCurrency)
	defer a.poller.Stop()
	defer a.saveSession()

	a.logger.WithField("base", a.opts.BaseCurrency).Info("Converter session started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Converter session stopped")
			return nil

		case result, ok := <-a.results:
			if !ok {
				a.results = nil
				continue
			}
			if err := a.handleResult(result); err != nil {
				a.logger.WithError(err).Error("Rates source broke the base currency contract")
				return err
			}
			a.publish()

		case online, ok := <-connectivity:
			if !ok {
				connectivity = nil
				continue
			}
			a.setOffline(!online)
			a.publish()

		case cmd := <-a.commands:
			err := cmd.apply()
			a.publish()
			cmd.reply <- err
		}
	}
}

// OnUpdate получает уведомления движка
func (a *App) OnUpdate(update engine.Update) {
	a.logger.WithFields(logrus.Fields{
		"kind":  update.Kind.String(),
		"dirty": len(update.Dirty),
	}).Trace("Conversion state updated")
	a.view = update.View
}

// Screen возвращает последнее опубликованное состояние экрана
func (a *App) Screen() models.ScreenResponse {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyScreen(a.screen)
}

// Insert вводит текст в поле активной валюты
func (a *App) Insert(ctx context.Context, position int, text string) (models.ScreenResponse, error) {
	return a.do(ctx, func() error {
		if !a.engine.Loaded() {
			return engine.ErrNotLoaded
		}
		a.cursor = a.field.Insert(position, text)
		a.engine.SetActiveAmount(a.field.Text())
		return nil
	})
}

// Delete удаляет текст [start, end) из поля активной валюты
func (a *App) Delete(ctx context.Context, start, end int) (models.ScreenResponse, error) {
	return a.do(ctx, func() error {
		if !a.engine.Loaded() {
			return engine.ErrNotLoaded
		}
		a.cursor = a.field.Delete(start, end)
		a.engine.SetActiveAmount(a.field.Text())
		return nil
	})
}

// SetAmount заменяет весь текст поля активной валюты
func (a *App) SetAmount(ctx context.Context, value string) (models.ScreenResponse, error) {
	return a.do(ctx, func() error {
		if !a.engine.Loaded() {
			return engine.ErrNotLoaded
		}
		a.field.Replace(value)
		a.cursor = len(a.field.Text())
		a.engine.SetActiveAmount(a.field.Text())
		return nil
	})
}

// Select делает валюту code активной
func (a *App) Select(ctx context.Context, code string) (models.ScreenResponse, error) {
	return a.do(ctx, func() error {
		state := a.engine.State()
		if state != nil && state.Active() == code {
			return nil
		}
		if err := a.engine.SelectActive(code); err != nil {
			return err
		}
		a.resetField()
		return nil
	})
}

// Retry перезапускает опрос после ошибки первой загрузки
func (a *App) Retry(ctx context.Context) (models.ScreenResponse, error) {
	return a.do(ctx, func() error {
		if a.status != StatusError {
			return ErrRetryNotAllowed
		}
		a.logger.Info("Retrying rates load")
		a.status = StatusLoading
		a.lastErr = nil
		a.results = a.poller.Start(a.runCtx, a.opts.BaseCurrency)
		return nil
	})
}

func (a *App) do(ctx context.Context, apply func() error) (models.ScreenResponse, error) {
	cmd := command{apply: apply, reply: make(chan error, 1)}

	select {
	case a.commands <- cmd:
	case <-a.done:
		return models.ScreenResponse{}, ErrNotRunning
	case <-ctx.Done():
		return models.ScreenResponse{}, ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		if err != nil {
			return models.ScreenResponse{}, err
		}
		return a.Screen(), nil
	case <-ctx.Done():
		return models.ScreenResponse{}, ctx.Err()
	}
}

func (a *App) handleResult(result worker.Result) error {
	if result.Err != nil {
		a.handleFailure(result.Err)
		return nil
	}

	first := !a.engine.Loaded()
	if err := a.engine.UpdateRates(result.Snapshot); err != nil {
		if errors.Is(err, engine.ErrBaseMissing) {
			return err
		}
		a.handleFailure(err)
		return nil
	}

	if a.status != StatusLoaded {
		a.logger.WithField("currencies", len(result.Snapshot.Codes)).Info("Rates loaded")
	}
	a.status = StatusLoaded
	a.lastErr = nil

	if first {
		a.restoreSession()
		a.resetField()
	}
	return nil
}

// Ошибка при показанном списке не прерывает работу: остаются прежние суммы
func (a *App) handleFailure(err error) {
	if a.status == StatusLoaded {
		a.logger.WithError(err).Warn("Rates refresh failed, keeping displayed rates")
		return
	}

	a.logger.WithError(err).Error("Failed to load rates")
	a.status = StatusError
	a.lastErr = err
	a.poller.Stop()
	a.results = nil
}

func (a *App) setOffline(offline bool) {
	if a.offline == offline {
		return
	}
	a.offline = offline
	a.logger.WithField("offline", offline).Info("Connectivity banner toggled")
}

// Текст поля соответствует сумме новой активной валюты
func (a *App) resetField() {
	state := a.engine.State()
	if state == nil {
		return
	}
	a.field.SetText(engine.FormatAmount(state.Amount(state.Active())))
	a.cursor = len(a.field.Text())
}

func (a *App) restoreSession() {
	if a.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(a.runCtx, saveTimeout)
	defer cancel()

	var (
		session *models.Session
		err     error
	)
	if a.sessionID != "" {
		session, err = a.store.LoadSession(ctx, a.sessionID)
	} else {
		session, err = a.store.LatestSession(ctx, a.opts.BaseCurrency)
	}
	if err != nil {
		if errors.Is(err, database.ErrSessionNotFound) {
			a.logger.Debug("No saved session to restore")
		} else {
			a.logger.WithError(err).Warn("Failed to load saved session")
		}
		return
	}

	if session.BaseCurrency != a.opts.BaseCurrency {
		a.logger.WithFields(logrus.Fields{
			"session_id": session.ID,
			"base":       session.BaseCurrency,
		}).Warn("Saved session has a different base currency, ignoring")
		return
	}

	a.sessionID = session.ID
	if err := a.engine.Restore(session.Order, session.ActiveAmount); err != nil {
		a.logger.WithError(err).Warn("Failed to restore saved session")
	}
}

func (a *App) saveSession() {
	if a.store == nil {
		return
	}
	state := a.engine.State()
	if state == nil {
		return
	}

	// ctx сессии уже отменён, сохраняем с отдельным таймаутом
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	session := &models.Session{
		ID:           a.sessionID,
		BaseCurrency: state.Base(),
		Order:        state.Order(),
		ActiveAmount: engine.ParseAmount(a.field.Text()),
	}
	if err := a.store.SaveSession(ctx, session); err != nil {
		a.logger.WithError(err).Error("Failed to save session")
		return
	}
	a.sessionID = session.ID
	a.logger.WithField("session_id", session.ID).Info("Session saved")
}

func (a *App) publish() {
	screen := models.ScreenResponse{
		Status:  string(a.status),
		Offline: a.offline,
		Input:   a.field.Text(),
		Cursor:  a.cursor,
		Rows:    a.rows(a.view),
	}
	if a.status == StatusError && a.lastErr != nil {
		screen.Error = fmt.Sprintf("failed to load rates: %v", a.lastErr)
	}

	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()
}

// Курс в строке показывается относительно активной валюты
func (a *App) rows(view engine.View) []models.RateRow {
	if len(view.Rows) == 0 {
		return []models.RateRow{}
	}

	baseRates := make(map[string]decimal.Decimal, len(view.Rows))
	for _, row := range view.Rows {
		baseRates[row.Code] = row.Rate
	}
	active := view.Rows[0].Code

	rows := make([]models.RateRow, 0, len(view.Rows))
	for _, row := range view.Rows {
		rate := row.Rate.String()
		if cross, err := utils.CalculateExchangeRate(active, row.Code, baseRates); err == nil {
			rate = cross.Round(rateDisplayPlaces).String()
		}
		rows = append(rows, models.RateRow{
			Code:    row.Code,
			Rate:    rate,
			Amount:  row.Amount.String(),
			Display: row.Display,
			Hint:    row.Hint(),
			Active:  row.Active,
		})
	}
	return rows
}

func copyScreen(screen models.ScreenResponse) models.ScreenResponse {
	rows := make([]models.RateRow, len(screen.Rows))
	copy(rows, screen.Rows)
	screen.Rows = rows
	return screen
}
