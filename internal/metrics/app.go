package metrics

import (
	"time"

	"github.com/lexlens/lexlens/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Pipeline metrics
	PipelineRunsTotal       = "app_pipeline_runs_total"
	PipelineImagesTotal     = "app_pipeline_images_total"
	PipelineFragmentsTotal  = "app_pipeline_fragments_total"
	PipelineDuration        = "app_pipeline_duration_ms"
	InterpreterFailureTotal = "app_interpreter_failures_total"
	BackendErrorTotal       = "app_backend_errors_total"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordPipelineRun records a completed pipeline run with status.
func RecordPipelineRun(strategy string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			PipelineRunsTotal,
			1,
			map[string]string{
				"strategy": strategy,
				"status":   status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			PipelineDuration,
			duration,
			map[string]string{
				"strategy": strategy,
			},
		)
	}
}

// RecordImagesExtracted records the number of image attachments found in a request.
func RecordImagesExtracted(count int) {
	if count <= 0 {
		return
	}
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			PipelineImagesTotal,
			float64(count),
			nil,
		)
	}
}

// RecordFragments records the number of fragments streamed to a client.
func RecordFragments(count int) {
	if count <= 0 {
		return
	}
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			PipelineFragmentsTotal,
			float64(count),
			nil,
		)
	}
}

// RecordInterpreterFailure records a failed image interpretation.
func RecordInterpreterFailure(interpreter string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			InterpreterFailureTotal,
			1,
			map[string]string{
				"interpreter": interpreter,
			},
		)
	}
}

// RecordBackendError records a generation request that ended in a backend
// diagnostic instead of a completed stream.
func RecordBackendError(model string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			BackendErrorTotal,
			1,
			map[string]string{
				"model": model,
			},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
