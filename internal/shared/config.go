package shared

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StorageType string // db | file
	FilePath    string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	RatePerSec float64
	RateBurst  int

	MirrorSource  string
	MirrorWorkers int
	MirrorRPS     int
}

// Load reads an optional .env file, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}

	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":5000"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StorageType:   env("HBNB_TYPE_STORAGE", "file"),
		FilePath:      env("HBNB_FILE_PATH", "file.json"),
		MySQLDSN:      env("MYSQL_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RatePerSec:    atof("RATE_LIMIT_RPS", 0),
		RateBurst:     atoi("RATE_LIMIT_BURST", 0),
		MirrorSource:  env("MIRROR_SOURCE_URL", ""),
		MirrorWorkers: atoi("MIRROR_WORKERS", 4),
		MirrorRPS:     atoi("MIRROR_RPS", 10),
	}
	if c.MySQLDSN != "" {
		c.MySQLDSN = withUTCTimes(c.MySQLDSN)
	} else {
		c.MySQLDSN = mysqlDSN(
			env("HBNB_MYSQL_USER", "hbnb_dev"),
			env("HBNB_MYSQL_PWD", "hbnb_dev_pwd"),
			env("HBNB_MYSQL_HOST", "localhost"),
			env("HBNB_MYSQL_DB", "hbnb_dev_db"),
		)
	}
	if c.StorageType != "db" && c.StorageType != "file" {
		log.Warn().Str("HBNB_TYPE_STORAGE", c.StorageType).Msg("unknown storage type, using file")
		c.StorageType = "file"
	}
	return c
}

// mysqlDSN builds a DSN from the individual HBNB_MYSQL_* settings.
func mysqlDSN(user, pass, host, db string) string {
	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = pass
	mc.Net = "tcp"
	mc.Addr = host
	if _, _, err := net.SplitHostPort(host); err != nil {
		mc.Addr = host + ":3306"
	}
	mc.DBName = db
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// withUTCTimes forces parseTime and UTC on a user-supplied DSN; the
// repository scans DATETIME columns straight into time.Time.
func withUTCTimes(dsn string) string {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		log.Warn().Err(err).Msg("MYSQL_DSN does not parse, using it as given")
		return dsn
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
