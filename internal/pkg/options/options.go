// Package options 服务的全部配置项, 由命令行参数或同名环境变量填充.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
)

type Options struct {
	Log        Log
	Server     Server
	Slurm      Slurm
	Prometheus Prometheus
	Cache      Cache
	Power      Power
	Cluster    Cluster
	Postgres   Postgres
	Embedding  Embedding
}

type Log struct {
	Level  string
	Output string
	Format string
	File   string
}

type Server struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type Slurm struct {
	Protocol   string
	Server     string
	Port       int
	APIVersion string
	Account    string
	Token      string
	Timeout    time.Duration
}

// Prometheus URL 为空表示未配置, 功率接口返回无数据.
type Prometheus struct {
	URL     string
	Timeout time.Duration
}

type Cache struct {
	NodeTTL        time.Duration
	SingleFlight   bool
	PassthroughTTL time.Duration
}

type Power struct {
	Window    time.Duration
	Step      time.Duration
	MaxPoints int
}

// Cluster Rules 形如 "Sol=sol,gpu", 为空时使用内置规则.
type Cluster struct {
	Rules []string
}

// Postgres DSN 为空时不启用文档检索.
type Postgres struct {
	DSN      string
	MaxConns int32
}

type Embedding struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	Threshold float64
	Limit     int
}

// Bind 把全部参数注册到 app 上, 解析后写入返回的 Options.
func Bind(app *kingpin.Application) *Options {
	o := &Options{}

	// Logging related flags
	app.Flag("log.level", "Log level, one of [debug, info, warn, error].").Default("info").EnumVar(&o.Log.Level, "debug", "info", "warn", "error")
	app.Flag("log.output", "Log output, one of [stdout, stderr, file].").Default("stderr").EnumVar(&o.Log.Output, "stdout", "stderr", "file")
	app.Flag("log.format", "Log format, one of [json, text].").Default("text").EnumVar(&o.Log.Format, "json", "text")
	app.Flag("log.file", "Log file path when --log.output=file.").PlaceHolder("PATH").StringVar(&o.Log.File)

	app.Flag("server.listen-addr", "Server listen address (e.g. :8080 or 127.0.0.1:8080)").Default(":8080").StringVar(&o.Server.ListenAddr)
	app.Flag("server.shutdown-timeout", "Graceful shutdown timeout (e.g. 10s)").Default("10s").DurationVar(&o.Server.ShutdownTimeout)
	app.Flag("server.cors-origin", "Allowed CORS origin, repeatable. Empty allows all origins.").StringsVar(&o.Server.CORSOrigins)

	// slurmrestd
	app.Flag("slurm.server", "slurmrestd host.").Envar("SLURM_SERVER").Required().StringVar(&o.Slurm.Server)
	app.Flag("slurm.port", "slurmrestd port.").Envar("SLURM_PORT").Default("6820").IntVar(&o.Slurm.Port)
	app.Flag("slurm.protocol", "slurmrestd protocol, one of [http, https].").Envar("SLURM_PROTOCOL").Default("http").EnumVar(&o.Slurm.Protocol, "http", "https")
	app.Flag("slurm.api-version", "slurmrestd API version (e.g. v0.0.40).").Envar("SLURM_API_VERSION").Default("v0.0.40").StringVar(&o.Slurm.APIVersion)
	app.Flag("slurm.account", "Value of X-SLURM-USER-NAME.").Envar("SLURM_API_ACCOUNT").StringVar(&o.Slurm.Account)
	app.Flag("slurm.token", "Value of X-SLURM-USER-TOKEN.").Envar("SLURM_API_TOKEN").StringVar(&o.Slurm.Token)
	app.Flag("slurm.timeout", "Timeout for slurmrestd HTTP requests (Go duration, e.g. 5s, 1m).").Default("10s").DurationVar(&o.Slurm.Timeout)

	app.Flag("prometheus.url", "Prometheus base URL. Power endpoints report no data when empty.").Envar("PROMETHEUS_URL").StringVar(&o.Prometheus.URL)
	app.Flag("prometheus.timeout", "Timeout for Prometheus queries.").Default("30s").DurationVar(&o.Prometheus.Timeout)

	app.Flag("cache.node-ttl", "Node list freshness window.").Default("2m").DurationVar(&o.Cache.NodeTTL)
	app.Flag("cache.single-flight", "Coalesce concurrent node list refreshes.").Default("false").BoolVar(&o.Cache.SingleFlight)
	app.Flag("cache.passthrough-ttl", "Cache time for reservation and user job pass-through responses.").Default("30s").DurationVar(&o.Cache.PassthroughTTL)

	app.Flag("power.window", "Power series look-back window.").Default("24h").DurationVar(&o.Power.Window)
	app.Flag("power.step", "Power series resolution.").Default("15m").DurationVar(&o.Power.Step)
	app.Flag("power.max-points", "Maximum number of power points returned.").Default("200").IntVar(&o.Power.MaxPoints)

	app.Flag("cluster.rule", "Cluster classification rule Name=sub1,sub2, repeatable and ordered.").PlaceHolder("NAME=SUBSTR,...").StringsVar(&o.Cluster.Rules)

	app.Flag("postgres.dsn", "PostgreSQL DSN of the document store. Document search is disabled when empty.").Envar("POSTGRES_URL").StringVar(&o.Postgres.DSN)
	app.Flag("postgres.max-conns", "Maximum PostgreSQL connections.").Default("4").Int32Var(&o.Postgres.MaxConns)

	app.Flag("embedding.base-url", "OpenAI compatible API base URL.").Envar("OPENAI_BASE_URL").Default("https://api.openai.com/v1").StringVar(&o.Embedding.BaseURL)
	app.Flag("embedding.api-key", "API key of the embedding endpoint.").Envar("OPENAI_API_KEY").StringVar(&o.Embedding.APIKey)
	app.Flag("embedding.model", "Embedding model.").Default("text-embedding-ada-002").StringVar(&o.Embedding.Model)
	app.Flag("embedding.timeout", "Timeout for embedding requests.").Default("15s").DurationVar(&o.Embedding.Timeout)
	app.Flag("docs.threshold", "Minimum cosine similarity of returned documents.").Default("0.5").Float64Var(&o.Embedding.Threshold)
	app.Flag("docs.limit", "Number of documents returned per search.").Default("1").IntVar(&o.Embedding.Limit)

	return o
}

// Validate 跨参数校验.
func (o *Options) Validate() error {
	if strings.EqualFold(o.Log.Output, "file") && !isValidFilePath(o.Log.File) {
		return fmt.Errorf("invalid --log.file path: %q", o.Log.File)
	}
	if o.Embedding.Threshold <= 0 || o.Embedding.Threshold >= 1 {
		return fmt.Errorf("--docs.threshold must be in (0, 1), got %v", o.Embedding.Threshold)
	}
	if o.Power.Step <= 0 || o.Power.Window < o.Power.Step {
		return fmt.Errorf("--power.window (%s) must not be shorter than --power.step (%s)", o.Power.Window, o.Power.Step)
	}
	return nil
}

// isValidFilePath performs a light-weight validation for file paths.
// It accepts both absolute and relative paths and rejects empty paths
// or paths that end with a path separator (which usually indicate a directory).
func isValidFilePath(p string) bool {
	if strings.TrimSpace(p) == "" {
		return false
	}
	// Reject paths that end with a separator, which imply directories
	if strings.HasSuffix(p, string(os.PathSeparator)) {
		return false
	}
	base := filepath.Base(p)
	if base == "." || base == string(os.PathSeparator) {
		return false
	}
	return true
}
