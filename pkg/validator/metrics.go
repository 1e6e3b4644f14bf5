// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validator

import "github.com/prometheus/client_golang/prometheus"

const (
	resultValid   = "valid"
	resultInvalid = "invalid"
	resultError   = "error"
)

type metrics struct {
	validations *prometheus.CounterVec
	violations  prometheus.Counter
	duration    prometheus.Histogram
	leafRefs    prometheus.Gauge
	targets     prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leafref_validations_total",
			Help: "Number of leafref validation runs by result",
		}, []string{"result"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leafref_violations_total",
			Help: "Number of leafref violations reported",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leafref_validation_duration_seconds",
			Help:    "Duration of leafref validation runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		leafRefs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leafref_index_leafrefs",
			Help: "Number of leafrefs in the loaded schema",
		}),
		targets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leafref_index_targets",
			Help: "Number of leafref targets in the loaded schema",
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.validations, m.violations, m.duration, m.leafRefs, m.targets)
}
