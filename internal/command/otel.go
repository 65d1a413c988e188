package command

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName scopes the dispatcher metrics.
const InstrumentationName = "github.com/OCAP2/radar/internal/command"

func meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}
