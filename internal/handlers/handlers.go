package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go_rates_converter/internal/app"
	"go_rates_converter/internal/engine"
	"go_rates_converter/internal/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Converter — операции сессии конвертера, доступные по HTTP
type Converter interface {
	Screen() models.ScreenResponse
	Insert(ctx context.Context, position int, text string) (models.ScreenResponse, error)
	Delete(ctx context.Context, start, end int) (models.ScreenResponse, error)
	SetAmount(ctx context.Context, value string) (models.ScreenResponse, error)
	Select(ctx context.Context, code string) (models.ScreenResponse, error)
	Retry(ctx context.Context) (models.ScreenResponse, error)
}

var _ Converter = (*app.App)(nil)

// Зависимости для обработчиков
type Handler struct {
	converter Converter
	logger    *logrus.Logger
}

// Создаём новый экземпляр Handler
func New(converter Converter, logger *logrus.Logger) *Handler {
	return &Handler{
		converter: converter,
		logger:    logger,
	}
}

// @Summary Текущее состояние конвертера
// @Description Возвращает статус загрузки курсов, баннер отсутствия сети, текст поля ввода и список валют; активная валюта первая
// @Tags converter
// @Produce json
// @Success 200 {object} models.ScreenResponse
// @Router /rates [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.converter.Screen())
}

// @Summary Ввод текста в поле активной валюты
// @Description Вставляет текст в позицию position, как если бы символы набирались по одному. Лишние символы отбрасываются фильтрами ввода.
// @Tags converter
// @Accept json
// @Produce json
// @Param request body models.InsertRequest true "Вставляемый текст"
// @Success 200 {object} models.ScreenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /input/insert [post]
func (h *Handler) InsertInput(w http.ResponseWriter, r *http.Request) {
	var req models.InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	if req.Text == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Text is required")
		return
	}
	if req.Position < 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Position must not be negative")
		return
	}

	screen, err := h.converter.Insert(r.Context(), req.Position, req.Text)
	if err != nil {
		h.writeConverterError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, screen)
}

// @Summary Удаление текста из поля активной валюты
// @Description Удаляет символы в диапазоне [start, end)
// @Tags converter
// @Accept json
// @Produce json
// @Param request body models.DeleteRequest true "Удаляемый диапазон"
// @Success 200 {object} models.ScreenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /input/delete [post]
func (h *Handler) DeleteInput(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	if req.Start < 0 || req.End < req.Start {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Range must satisfy 0 <= start <= end")
		return
	}

	screen, err := h.converter.Delete(r.Context(), req.Start, req.End)
	if err != nil {
		h.writeConverterError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, screen)
}

// @Summary Замена суммы активной валюты
// @Description Заменяет весь текст поля; текст проходит те же фильтры, что и ввод с клавиатуры
// @Tags converter
// @Accept json
// @Produce json
// @Param request body models.AmountRequest true "Новая сумма"
// @Success 200 {object} models.ScreenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /amount [post]
func (h *Handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	screen, err := h.converter.SetAmount(r.Context(), strings.TrimSpace(req.Value))
	if err != nil {
		h.writeConverterError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, screen)
}

// @Summary Выбрать активную валюту
// @Description Перемещает валюту в начало списка; дальнейший ввод относится к ней
// @Tags converter
// @Produce json
// @Param code path string true "Код валюты (например, USD)"
// @Success 200 {object} models.ScreenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /currencies/{code}/select [post]
func (h *Handler) SelectCurrency(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := strings.ToUpper(strings.TrimSpace(vars["code"]))

	if code == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Currency code is required")
		return
	}

	screen, err := h.converter.Select(r.Context(), code)
	if err != nil {
		h.writeConverterError(w, err)
		return
	}

	h.logger.WithField("currency", code).Info("Active currency selected")

	h.writeJSONResponse(w, http.StatusOK, screen)
}

// @Summary Повторить загрузку курсов
// @Description Перезапускает опрос курсов после ошибки первой загрузки
// @Tags converter
// @Produce json
// @Success 200 {object} models.ScreenResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /retry [post]
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	screen, err := h.converter.Retry(r.Context())
	if err != nil {
		h.writeConverterError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, screen)
}

// @Summary Health check
// @Description Проверка состояния сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	screen := h.converter.Screen()
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "rates-converter-service",
		"rates":     screen.Status,
		"offline":   screen.Offline,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// Переводим ошибки конвертера в HTTP статусы
func (h *Handler) writeConverterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotLoaded):
		h.writeErrorResponse(w, http.StatusConflict, "Not loaded", "Rates are not loaded yet")
	case errors.Is(err, engine.ErrUnknownCurrency):
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, app.ErrRetryNotAllowed):
		h.writeErrorResponse(w, http.StatusConflict, "Retry not allowed", err.Error())
	case errors.Is(err, app.ErrNotRunning),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "Unavailable", "Converter is not available")
	default:
		h.logger.WithError(err).Error("Converter operation failed")
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal error", "Converter operation failed")
	}
}

// Записываем JSON ответ
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// Записываем JSON ответ с ошибкой
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, error, message string) {
	response := models.ErrorResponse{
		Error:   error,
		Message: message,
	}

	h.writeJSONResponse(w, statusCode, response)
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.GetRates).Methods("GET")
	router.HandleFunc("/input/insert", h.InsertInput).Methods("POST")
	router.HandleFunc("/input/delete", h.DeleteInput).Methods("POST")
	router.HandleFunc("/amount", h.SetAmount).Methods("POST")
	router.HandleFunc("/currencies/{code}/select", h.SelectCurrency).Methods("POST")
	router.HandleFunc("/retry", h.Retry).Methods("POST")
	router.HandleFunc("/health", h.Health).Methods("GET")
}
