/*
Package observability provides Prometheus metrics for the treatment
engine, wired in through lifecycle hooks so the runtime itself stays
free of metrics concerns.
*/
package observability
