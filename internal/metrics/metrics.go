// Package metrics exposes Prometheus counters for a running parser:
// commands dispatched, errors queued by SESR class, SRQ events, and blob
// bytes transferred. Modeled on
// open-source-firmware-go-tcg-storage/cmd/tcgdiskstat's use of
// github.com/prometheus/client_golang, adapted from that tool's one-shot
// const-metric snapshot into live counters suitable for a long-running
// instrument endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the counters a Parser reports through its Hooks and
// dispatch path. Callers register it once with their own
// prometheus.Registerer (or prometheus.DefaultRegisterer) and wire its
// Observe* methods into scpi.Config.Hooks and command callbacks.
type Registry struct {
	CommandsDispatched *prometheus.CounterVec
	ErrorsQueued       *prometheus.CounterVec
	ServiceRequests    prometheus.Counter
	BlobBytes          prometheus.Counter
}

// New constructs a Registry with unregistered collectors.
func New() *Registry {
	return &Registry{
		CommandsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scpi_commands_dispatched_total",
			Help: "Number of command headers successfully dispatched, by canonical header.",
		}, []string{"header"}),
		ErrorsQueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scpi_errors_queued_total",
			Help: "Number of errors pushed onto the error queue, by SESR class.",
		}, []string{"class"}),
		ServiceRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scpi_service_requests_total",
			Help: "Number of 0->1 RQS transitions that fired a service request.",
		}),
		BlobBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scpi_blob_bytes_total",
			Help: "Total bytes delivered through BLOB argument chunk callbacks.",
		}),
	}
}

// MustRegister registers every collector in r with reg.
func (r *Registry) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(r.CommandsDispatched, r.ErrorsQueued, r.ServiceRequests, r.BlobBytes)
}

// ObserveCommand increments the dispatch counter for header.
func (r *Registry) ObserveCommand(header string) {
	r.CommandsDispatched.WithLabelValues(header).Inc()
}

// ObserveError increments the error-queued counter for a resolved SESR
// class name ("command", "execution", "device", "query").
func (r *Registry) ObserveError(class string) {
	r.ErrorsQueued.WithLabelValues(class).Inc()
}

// ObserveServiceRequest increments the SRQ counter.
func (r *Registry) ObserveServiceRequest() {
	r.ServiceRequests.Inc()
}

// ObserveBlobBytes adds n to the blob byte counter.
func (r *Registry) ObserveBlobBytes(n int) {
	r.BlobBytes.Add(float64(n))
}

// ClassForSESRBit maps a SESR bit (as exposed by status.go's SesrXxx
// constants) to the class label used by ObserveError.
func ClassForSESRBit(bit uint8) string {
	switch bit {
	case 1 << 5: // SesrCmdError
		return "command"
	case 1 << 4: // SesrExeError
		return "execution"
	case 1 << 3: // SesrDevError
		return "device"
	case 1 << 2: // SesrQueryError
		return "query"
	default:
		return "other"
	}
}
