/*
Package monitoring provides Prometheus metrics for the storage service.

# Overview

This package implements Prometheus-based metrics collection, tracking HTTP
requests, storage operations, and system metrics.

# Features

- HTTP request metrics (count, latency) labelled by route template
- Storage operation metrics (count, duration, outcome)
- Upload throughput (accepted bytes, active streams)
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time operations
	timer := monitoring.NewTimer(metrics, "upload")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
