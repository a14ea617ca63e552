/*
Package observability turns coordinator lifecycle hooks into logs and metrics.

LoggingHooks writes one structured record per event. Metrics counts events
and tracks stack depth with Prometheus collectors; its Hooks can be merged
with other hooks through domain.MergeHooks.
*/
package observability
