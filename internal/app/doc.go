// Package app provides application initialization and lifecycle management
// for the shopmetrics server. It wires configuration loading, logging,
// observability, the analytics services and the HTTP router together, and
// owns the graceful shutdown sequence.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Resolve paths and ensure writable directories exist
//	3. Initialize structured logging and OpenTelemetry metrics
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Configure and start the HTTP server
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM to ensure active requests are
// completed, metric providers are flushed and the log file is closed. All
// initialization errors are returned to the caller; the package never calls
// os.Exit() directly.
package app
