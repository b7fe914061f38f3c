// Package audit writes identity events to the structured log and counts them.
package audit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

// Options configures the audit logger.
type Options struct {
	Registerer prometheus.Registerer
	Namespace  string
}

// Logger implements domain.AuditLogger.
type Logger struct {
	log    *zap.Logger
	Events *prometheus.CounterVec
}

// NewLogger registers the event counter and returns an audit logger.
func NewLogger(lg *zap.Logger, opts Options) (*Logger, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "identitysvc"
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "events_total",
		Help:      "Total number of identity events partitioned by event type and outcome.",
	}, []string{"event", "success"})

	if err := reg.Register(events); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register audit collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("existing audit collector has unexpected type %T", already.ExistingCollector)
		}
		events = existing
	}

	return &Logger{log: lg.Named("audit"), Events: events}, nil
}

// LogEvent implements domain.AuditLogger
func (l *Logger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return nil
	}

	l.Events.WithLabelValues(string(event.EventType), strconv.FormatBool(event.Success)).Inc()

	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Uint("user_id", event.UserID))
	}
	if event.Identifier != domain.IdentifierNone {
		fields = append(fields, zap.Stringer("identifier", event.Identifier))
	}
	// Callers mask the address before it reaches the event
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	log := logger.WithContext(ctx, l.log)
	if !event.Success {
		log.Warn("identity event failed", append(fields, zap.String("error", event.ErrorMsg))...)
		return nil
	}
	log.Info("identity event", fields...)
	return nil
}

var _ domain.AuditLogger = (*Logger)(nil)
