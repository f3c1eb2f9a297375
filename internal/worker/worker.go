package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go_rates_converter/internal/external"
	"go_rates_converter/internal/models"

	"github.com/sirupsen/logrus"
)

// RateSource — источник снимков курсов
type RateSource interface {
	GetRates(ctx context.Context, base string) (models.RateSnapshot, error)
}

// Result — результат одного запроса курсов: снимок либо ошибка
type Result struct {
	Snapshot models.RateSnapshot
	Err      error
}

// Worker периодически опрашивает источник курсов.
// Одновременно активен не больше одного цикла опроса.
type Worker struct {
	source   RateSource
	logger   *logrus.Logger
	metrics  *Metrics
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Создаём новый воркер; metrics может быть nil
func New(source RateSource, logger *logrus.Logger, interval time.Duration, metrics *Metrics) *Worker {
	return &Worker{
		source:   source,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
	}
}

// Start запускает цикл опроса для base и возвращает канал результатов.
// Первый запрос выполняется сразу, следующие через interval от начала предыдущего цикла.
// Предыдущий цикл, если он был, полностью останавливается до запуска нового.
// Канал закрывается при завершении цикла.
func (w *Worker) Start(ctx context.Context, base string) <-chan Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	cycleCtx, cancel := context.WithCancel(ctx)
	results := make(chan Result)
	w.cancel = cancel

	w.logger.WithFields(logrus.Fields{
		"base":     base,
		"interval": w.interval,
	}).Info("Starting rates poller")

	w.wg.Add(1)
	go w.run(cycleCtx, base, results)

	return results
}

// Stop останавливает текущий цикл и дожидается его завершения.
// После возврата из Stop результатов больше не будет.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
}

func (w *Worker) stopLocked() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.cancel = nil
	w.wg.Wait()
	w.logger.Info("Rates poller stopped")
}

func (w *Worker) run(ctx context.Context, base string, results chan<- Result) {
	defer w.wg.Done()
	defer close(results)

	for {
		started := time.Now()
		result := w.fetch(ctx, base)

		// Цикл отменён во время запроса: результат никому не нужен
		if ctx.Err() != nil {
			return
		}

		select {
		case results <- result:
		case <-ctx.Done():
			return
		}

		wait := w.interval - time.Since(started)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (w *Worker) fetch(ctx context.Context, base string) Result {
	started := time.Now()
	snapshot, err := w.source.GetRates(ctx, base)
	elapsed := time.Since(started)

	// Прерванный остановкой запрос не учитываем
	if ctx.Err() != nil {
		return Result{Err: err}
	}
	w.observe(elapsed, err)

	if err != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"base":     base,
			"duration": elapsed,
		}).Debug("Failed to fetch rates")
		return Result{Err: err}
	}

	w.logger.WithFields(logrus.Fields{
		"base":       base,
		"currencies": len(snapshot.Codes),
		"duration":   elapsed,
	}).Debug("Rates fetched")

	return Result{Snapshot: snapshot}
}

func (w *Worker) observe(elapsed time.Duration, err error) {
	if w.metrics == nil {
		return
	}
	w.metrics.FetchDuration.Observe(elapsed.Seconds())
	w.metrics.FetchTotal.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		w.metrics.LastSuccess.SetToCurrentTime()
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var fetchErr *external.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind.String()
	}
	return "error"
}
