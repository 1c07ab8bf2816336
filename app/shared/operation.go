package shared

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/hirelane/engage/app/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operations carries what every service operation needs: a logger, metrics,
// a tracer and the database used to open transactions.
type Operations struct {
	Service string
	Logger  *slog.Logger
	Metrics observability.OperationMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// OperationFunc is the signature of a wrapped service operation.
type OperationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// TxFunc is the signature of logic that runs inside a transaction. db is nil
// when no database is configured.
type TxFunc[S any, F any] func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error)

func (o *Operations) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// WithTelemetry wraps an operation with tracing, metrics, logging and panic
// recovery.
func WithTelemetry[S any, F any](
	o *Operations,
	ctx context.Context,
	operationName string,
	identifier string,
	op OperationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	logger := o.logger()

	var span trace.Span
	if o.Tracer != nil {
		ctx, span = o.Tracer.Start(ctx, o.Service+"."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if o.Metrics != nil {
		o.Metrics.RecordOperationAttempt(ctx, operationName, o.Service)
	}

	startTime := time.Now()
	defer func() {
		if o.Metrics != nil {
			o.Metrics.RecordOperationDuration(ctx, operationName, o.Service, time.Since(startTime))
		}
	}()

	logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if o.Metrics != nil {
				o.Metrics.RecordOperationFailure(ctx, operationName, o.Service)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if o.Metrics != nil {
			o.Metrics.RecordOperationFailure(ctx, operationName, o.Service)
		}
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	if result.IsFailure() {
		logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if o.Metrics != nil {
		o.Metrics.RecordOperationSuccess(ctx, operationName, o.Service)
	}

	return result, nil
}

// RunInTx runs fn inside a read-committed transaction, or directly with a
// nil handle when no database is configured.
func RunInTx[S any, F any](o *Operations, ctx context.Context, fn TxFunc[S, F]) (results.OperationResult[S, F], error) {
	if o.DB == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := o.DB.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// Run is WithTelemetry around RunInTx, unwrapping the result. Domain
// failures are returned as errors.
func Run[S any](o *Operations, ctx context.Context, operationName, identifier string, fn TxFunc[S, error]) (S, error) {
	result, err := WithTelemetry(o, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return RunInTx(o, ctx, fn)
	})
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}
