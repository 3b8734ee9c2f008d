package postgres

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option 使用函数式选项模式配置连接池。
type Option func(cfg *pgxpool.Config)

// WithMaxConns 设置最大连接数。检索请求量很小, 默认 4 个连接即可.
func WithMaxConns(n int32) Option {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = n
		}
	}
}

// WithMaxConnIdleTime 设置连接的最长空闲时间。
func WithMaxConnIdleTime(d time.Duration) Option {
	return func(cfg *pgxpool.Config) { cfg.MaxConnIdleTime = d }
}

// WithApplicationName 设置 application_name, 便于在 pg_stat_activity 中区分来源.
func WithApplicationName(name string) Option {
	return func(cfg *pgxpool.Config) { cfg.ConnConfig.RuntimeParams["application_name"] = name }
}

// WithStatementTimeout 设置服务端语句超时, 向量检索在没有索引时可能很慢.
func WithStatementTimeout(d time.Duration) Option {
	return func(cfg *pgxpool.Config) {
		if d > 0 {
			cfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(d.Milliseconds(), 10)
		}
	}
}
