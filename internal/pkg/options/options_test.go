package options

import (
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Options, error) {
	t.Helper()
	app := kingpin.New("test", "")
	o := Bind(app)
	_, err := app.Parse(args)
	return o, err
}

func TestDefaults(t *testing.T) {
	t.Setenv("PROMETHEUS_URL", "")
	t.Setenv("POSTGRES_URL", "")
	o, err := parse(t, "--slurm.server=slurm01")
	require.NoError(t, err)
	require.NoError(t, o.Validate())

	assert.Equal(t, "slurm01", o.Slurm.Server)
	assert.Equal(t, 6820, o.Slurm.Port)
	assert.Equal(t, "http", o.Slurm.Protocol)
	assert.Equal(t, 2*time.Minute, o.Cache.NodeTTL)
	assert.False(t, o.Cache.SingleFlight)
	assert.Equal(t, 30*time.Second, o.Cache.PassthroughTTL)
	assert.Equal(t, 24*time.Hour, o.Power.Window)
	assert.Equal(t, 15*time.Minute, o.Power.Step)
	assert.Equal(t, 200, o.Power.MaxPoints)
	assert.Equal(t, 0.5, o.Embedding.Threshold)
	assert.Equal(t, 1, o.Embedding.Limit)
	assert.Empty(t, o.Prometheus.URL)
	assert.Empty(t, o.Postgres.DSN)
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("SLURM_SERVER", "slurm-env")
	t.Setenv("SLURM_API_VERSION", "v0.0.39")
	t.Setenv("SLURM_API_TOKEN", "secret")
	t.Setenv("PROMETHEUS_URL", "http://prom:9090")

	o, err := parse(t, "--cluster.rule=Atlas=atl", "--cluster.rule=Sol=sol,gpu")
	require.NoError(t, err)
	assert.Equal(t, "slurm-env", o.Slurm.Server)
	assert.Equal(t, "v0.0.39", o.Slurm.APIVersion)
	assert.Equal(t, "secret", o.Slurm.Token)
	assert.Equal(t, "http://prom:9090", o.Prometheus.URL)
	assert.Equal(t, []string{"Atlas=atl", "Sol=sol,gpu"}, o.Cluster.Rules)
}

func TestMissingSlurmServer(t *testing.T) {
	t.Setenv("SLURM_SERVER", "")
	_, err := parse(t)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	o, err := parse(t, "--slurm.server=s", "--log.output=file")
	require.NoError(t, err)
	assert.ErrorContains(t, o.Validate(), "--log.file")

	o, err = parse(t, "--slurm.server=s", "--docs.threshold=1.5")
	require.NoError(t, err)
	assert.ErrorContains(t, o.Validate(), "--docs.threshold")

	o, err = parse(t, "--slurm.server=s", "--power.window=5m")
	require.NoError(t, err)
	assert.ErrorContains(t, o.Validate(), "--power.window")
}

func TestIsValidFilePath(t *testing.T) {
	assert.True(t, isValidFilePath("/var/log/dashboard.log"))
	assert.True(t, isValidFilePath("dashboard.log"))
	assert.False(t, isValidFilePath(" "))
	assert.False(t, isValidFilePath("/var/log/"))
}
