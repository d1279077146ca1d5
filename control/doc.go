// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, hot reload, metrics and debug introspection for the
// thread naming layer.
//
// Provides:
//   - YAML configuration with defaults and validation
//   - a typed config store with reload listeners, fed by a file watcher
//   - Prometheus collectors for rename barriers and pool occupancy
//   - debug probes exposing each worker slot's current name
package control
