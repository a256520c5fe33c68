package server

import "github.com/prometheus/client_golang/prometheus"

var sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "evoscope_sessions_active",
	Help: "Observer sessions currently attached to the hub.",
})

var framesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "evoscope_frames_sent_total",
	Help: "Frames written to observers, by frame kind.",
}, []string{"kind"})

var bytesSent = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "evoscope_bytes_sent_total",
	Help: "Encoded frame bytes written to observers.",
})

var sessionsClosed = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "evoscope_sessions_closed_total",
	Help: "Sessions torn down, by reason.",
}, []string{"reason"})

func registerMetrics() {
	prometheus.MustRegister(sessionsActive, framesSent, bytesSent, sessionsClosed)
}
