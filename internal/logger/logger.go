package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger представляет структурированный логгер
type Logger struct {
	*logrus.Logger
}

// New создает новый экземпляр логгера
func New(level, format string) *Logger {
	return NewWithOutput(level, format, os.Stdout)
}

// NewWithOutput создает логгер, пишущий в указанный writer
func NewWithOutput(level, format string, out io.Writer) *Logger {
	logger := logrus.New()

	// Настройка формата вывода
	switch format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// Настройка уровня логирования
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	logger.SetOutput(out)

	return &Logger{logger}
}

// Component возвращает логгер с полем component
func (l *Logger) Component(name string) *logrus.Entry {
	return l.Logger.WithField("component", name)
}
