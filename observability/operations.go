package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for gotctools operations
	TracerName = "github.com/willibrandon/gotctools"
)

// Common attribute keys
const (
	AttrOperation   = attribute.Key("twincat.operation")
	AttrProjectPath = attribute.Key("twincat.project.path")
	AttrLibrary     = attribute.Key("twincat.library")
	AttrSessionID   = attribute.Key("gotctools.session.id")
)

// StartResolveSpan starts a span for dependency tree resolution
func StartResolveSpan(ctx context.Context, root string, candidates int) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "dependency.resolve",
		trace.WithAttributes(
			attribute.String("dependency.root", root),
			attribute.Int("dependency.candidates", candidates),
			AttrOperation.String("resolve"),
		),
	)
}

// StartSolutionLoadSpan starts a span for loading a solution file
func StartSolutionLoadSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "solution.load",
		trace.WithAttributes(
			AttrProjectPath.String(path),
			AttrOperation.String("load"),
		),
	)
}

// StartRepositoryScanSpan starts a span for a library repository scan
func StartRepositoryScanSpan(ctx context.Context, root string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "repository.scan",
		trace.WithAttributes(
			attribute.String("repository.path", root),
			AttrOperation.String("scan"),
		),
	)
}

// StartTcBuildSpan starts a span for a tcbuild invocation.
// operation is "build" or "install".
func StartTcBuildSpan(ctx context.Context, operation, projectPath string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "tcbuild."+operation,
		trace.WithAttributes(
			AttrProjectPath.String(projectPath),
			AttrOperation.String(operation),
		),
	)
}

// RecordMissingLibrary records an unresolved reference on the current span
func RecordMissingLibrary(ctx context.Context, library string) {
	AddEvent(ctx, "library.missing", AttrLibrary.String(library))
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
