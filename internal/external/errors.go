package external

import (
	"fmt"

	"go_rates_converter/internal/models"
)

// Вид ошибки получения курсов
type ErrorKind int

const (
	// Запрос не удалось выполнить (сеть, сокет, таймаут)
	TransportError ErrorKind = iota
	// API ответил статусом вне 2xx
	ProtocolError
	// Ответ не удалось разобрать
	DecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case ProtocolError:
		return "protocol"
	case DecodeError:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError описывает неудачную попытку получить курсы
type FetchError struct {
	Kind ErrorKind
	// Status и Body заполняются только для ProtocolError
	Status   int
	Body     []byte
	Response *models.ErrorResponse
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ProtocolError:
		if e.Response != nil && e.Response.Error != "" {
			return fmt.Sprintf("rates API returned status %d: %s", e.Status, e.Response.Error)
		}
		return fmt.Sprintf("rates API returned status %d", e.Status)
	default:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func transportError(err error) *FetchError {
	return &FetchError{Kind: TransportError, Err: err}
}

func decodeError(err error) *FetchError {
	return &FetchError{Kind: DecodeError, Err: err}
}
