package network

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Checker проверяет доступность сети
type Checker interface {
	Check(ctx context.Context) bool
}

// TCPChecker считает сеть доступной, если удаётся открыть TCP соединение с Address
type TCPChecker struct {
	Address string
	Timeout time.Duration
}

// NewTCPChecker создаёт проверку для хоста из URL (порт по умолчанию берётся из схемы)
func NewTCPChecker(rawURL string, timeout time.Duration) (*TCPChecker, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("url %q has no host", rawURL)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return nil, fmt.Errorf("url %q has no port and unknown scheme", rawURL)
		}
	}

	return &TCPChecker{
		Address: net.JoinHostPort(u.Hostname(), port),
		Timeout: timeout,
	}, nil
}

func (c *TCPChecker) Check(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Monitor периодически проверяет сеть и сообщает об изменениях
type Monitor struct {
	checker  Checker
	interval time.Duration
	logger   *logrus.Logger
}

// Создаём новый монитор сети
func NewMonitor(checker Checker, interval time.Duration, logger *logrus.Logger) *Monitor {
	return &Monitor{
		checker:  checker,
		interval: interval,
		logger:   logger,
	}
}

// Run запускает проверки до отмены ctx. В канал попадает результат первой проверки
// и далее только изменения состояния (true — сеть доступна).
// Канал закрывается при отмене ctx.
func (m *Monitor) Run(ctx context.Context) <-chan bool {
	changes := make(chan bool)

	go func() {
		defer close(changes)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		first := true
		var last bool
		for {
			online := m.checker.Check(ctx)
			if ctx.Err() != nil {
				return
			}

			if first || online != last {
				m.logger.WithField("online", online).Info("Network availability changed")
				select {
				case changes <- online:
				case <-ctx.Done():
					return
				}
				first = false
				last = online
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return changes
}
