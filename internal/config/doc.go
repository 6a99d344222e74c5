// Package config loads and validates fleetgate configuration.
//
// Configuration lives in a single YAML file, by default
// ~/.config/fleetgate/config.yaml. A different directory or file can be
// passed with --config-path. Values are resolved in this order:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. the YAML file, if present
//  3. environment overrides for the Kibana connection
//     (FLEETGATE_KIBANA_URL, FLEETGATE_KIBANA_USERNAME,
//     FLEETGATE_KIBANA_PASSWORD, FLEETGATE_KIBANA_API_KEY)
//
// The merged result is validated with struct tags; failures are reported as
// a ConfigurationError whose message lists every offending field by its YAML
// path.
//
// # Example
//
//	kibana:
//	  url: https://kibana.example.com:5601
//	  version: 7.10.0
//	  space: ops
//	  apiKey: <base64 id:key>
//	server:
//	  host: 0.0.0.0
//	  port: 8220
//	agents:
//	  enabled: true
//	  pollInterval: 5s
//	logging:
//	  level: info
//	  format: json
//
// Watcher reports changes to the file so that a running server can remount
// the initialization sequence with the new settings.
package config
