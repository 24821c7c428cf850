// Package config defines the YAML configuration for the Pulse telemetry
// service: the ops HTTP server, logging, the metrics collector and its
// sinks, and alert thresholds.
//
// Configuration is loaded explicitly at startup (LoadFromFile) with
// defaults applied first, then the file, then environment overrides, and
// is validated before use. Which sinks exist is declared in the file; no
// destination is detected at runtime.
//
// Example:
//
//	server:
//	  listen_address: "0.0.0.0:9090"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    service_name: adastra-web
//	    buffer_size: 100
//	    flush_interval: 5s
//	    sampling_rate: 1.0
//	    sinks:
//	      agent:
//	        address: "localhost:8125"
//	      prometheus:
//	        enabled: true
//	  thresholds:
//	    - metric: requests.duration
//	      comparator: ">"
//	      limit: 2000
//
// A Watcher can reload the file on change so threshold edits take effect
// without a restart.
package config
