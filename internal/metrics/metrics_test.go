package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums every series of a counter family
func counterValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		manager := NewManager(reg)

		Convey("When upstream requests are recorded", func() {
			manager.RecordUpstreamRequest("personal-bests", 200, 10*time.Millisecond)
			manager.RecordUpstreamRequest("runs", 404, time.Millisecond)

			Convey("Then the counter reflects both", func() {
				So(counterValue(reg, "speedrun_pbs_upstream_requests_total"), ShouldEqual, 2)
			})
		})

		Convey("When cache lookups are recorded", func() {
			manager.RecordHistoryCache(true)
			manager.RecordHistoryCache(false)
			manager.RecordHistoryCache(false)

			Convey("Then hits and misses are counted", func() {
				So(counterValue(reg, "speedrun_pbs_history_cache_lookups_total"), ShouldEqual, 3)
			})
		})

		Convey("When collapsed runs are recorded", func() {
			manager.RecordRunsCollapsed(3)
			manager.RecordRunsCollapsed(0)
			manager.RecordRunsCollapsed(-1)

			Convey("Then only positive counts are added", func() {
				So(counterValue(reg, "speedrun_pbs_bestrun_runs_collapsed_total"), ShouldEqual, 3)
			})
		})

		Convey("When HTTP requests are recorded", func() {
			manager.RecordHTTPRequest("/healthz", 200, time.Millisecond)

			Convey("Then the request counter increases", func() {
				So(counterValue(reg, "speedrun_pbs_http_requests_total"), ShouldEqual, 1)
			})
		})
	})

	Convey("Given the default manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(Registry(), ShouldNotBeNil)
	})
}
