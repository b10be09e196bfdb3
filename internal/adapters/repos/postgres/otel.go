package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("staffsync/internal/adapters/repos/postgres")
	logger = otelslog.NewLogger("staffsync/internal/adapters/repos/postgres")
)
