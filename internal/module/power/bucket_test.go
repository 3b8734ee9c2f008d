package power

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/prometheus"
)

func TestBucketizeIsIdempotent(t *testing.T) {
	in := []prometheus.Series{
		series(map[string]string{"hostname": "n1"}, sample(3000, 10.4), sample(1000, 10), sample(2000, math.NaN())),
		series(map[string]string{"hostname": "n2"}, sample(1000, 20.2), sample(2000, 30)),
	}

	first := Bucketize(in, DefaultMaxPoints)
	second := Bucketize(in, DefaultMaxPoints)

	assert.Equal(t, first, second)
	assert.Equal(t, []Point{
		{Time: 1000, Watts: 30, AverageWatts: 15, NodesReporting: 2},
		{Time: 2000, Watts: 30, AverageWatts: 30, NodesReporting: 1},
		{Time: 3000, Watts: 10, AverageWatts: 10, NodesReporting: 1},
	}, first)
	assert.Equal(t, int64(3000), in[0].Values[0].Time)
}

func TestBucketizeKeepsMostRecent(t *testing.T) {
	s := series(nil)
	for i := 0; i < 250; i++ {
		s.Values = append(s.Values, sample(int64(i)*1000, 1))
	}

	points := Bucketize([]prometheus.Series{s}, 200)
	assert.Len(t, points, 200)
	assert.Equal(t, int64(50000), points[0].Time)
	assert.Equal(t, int64(249000), points[199].Time)
}

func TestMatchedIdentities(t *testing.T) {
	in := []prometheus.Series{
		series(map[string]string{"instance": "n1:9290", "hostname": "n1"}),
		series(map[string]string{"instance": "n1:9290"}),
		series(map[string]string{"node": "x9"}),
		series(map[string]string{"job": "n2"}),
	}
	assert.Equal(t, 2, MatchedIdentities(in, []string{"n1"}))
	assert.Len(t, FilterByNodes(in, []string{"n1", "n2"}), 3)
	assert.Empty(t, FilterByNodes(in, []string{""}))
}

func TestQueries(t *testing.T) {
	assert.Equal(t,
		`avg_over_time(ipmi_power_watts{name="Pwr Consumption", hostname=~"a|b"}[15m])`,
		DefaultPatterns[0].Query([]string{"a", "b"}, 15*time.Minute))
	assert.Equal(t,
		`avg_over_time((ipmi_power_watts{name="Pwr Consumption"} or ipmi_dcmi_power_consumption_watts)[15m:])`,
		FallbackQuery(15*time.Minute))
	assert.Equal(t, "1h", promDuration(time.Hour))
	assert.Equal(t, "90s", promDuration(90*time.Second))
}
