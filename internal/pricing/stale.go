package pricing

import (
	"context"

	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
)

// StaleLogger warns about stale references and counts them.
type StaleLogger struct {
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

func NewStaleLogger(logg *logger.Logger, m *metrics.StorefrontMetrics) *StaleLogger {
	return &StaleLogger{logg: logg, metrics: m}
}

// Bind returns a reporter that logs against ctx and labels the counter with source.
func (s *StaleLogger) Bind(ctx context.Context, source string) StaleReporter {
	return ReporterFunc(func(ref StaleRef) {
		if s == nil {
			return
		}
		s.metrics.IncStaleRef(source)
		if s.logg == nil {
			return
		}
		fields := s.logg.WithFields(ctx, map[string]any{
			"product_id": ref.ProductID.String(),
			"group_id":   ref.GroupID.String(),
			"option_id":  ref.OptionID.String(),
			"source":     source,
		})
		s.logg.Warn(fields, "ignoring stale customization reference")
	})
}
