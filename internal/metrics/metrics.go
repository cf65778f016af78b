package metrics

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	StoreOperationDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "board_store_operation_duration_seconds",
			Help:       "Duration of document store calls made by repositories.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"operation"},
	)
	JobsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_jobs_created_total",
			Help: "Total number of created job listings.",
		},
	)
	JobStatusChangesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_job_status_changes_total",
			Help: "Total number of job status changes by target status.",
		},
		[]string{"status"},
	)
	ApplicationsSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_applications_submitted_total",
			Help: "Total number of submitted applications.",
		},
	)
	SignInsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_sign_ins_total",
			Help: "Total number of sign-in attempts by result.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(StoreOperationDuration)
		prometheus.MustRegister(JobsCreatedCounter)
		prometheus.MustRegister(JobStatusChangesCounter)
		prometheus.MustRegister(ApplicationsSubmittedCounter)
		prometheus.MustRegister(SignInsCounter)
	})
}

// StartMetricsServer exposes /metrics on addr. The returned server is
// already listening.
func StartMetricsServer(addr string) *http.Server {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
	return server
}
