package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HBNB_TYPE_STORAGE", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	c := Load()
	assert.Equal(t, "file", c.StorageType)
	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, 900*time.Second, c.CacheTTL)
	assert.Contains(t, c.MySQLDSN, "tcp(localhost:3306)/hbnb_dev_db")
	assert.Contains(t, c.MySQLDSN, "parseTime=true")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HBNB_TYPE_STORAGE", "db")
	t.Setenv("HBNB_MYSQL_HOST", "db.internal:3307")
	t.Setenv("HBNB_MYSQL_DB", "hbnb_test_db")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MIRROR_WORKERS", "nope")

	c := Load()
	assert.Equal(t, "db", c.StorageType)
	assert.Contains(t, c.MySQLDSN, "tcp(db.internal:3307)/hbnb_test_db")
	assert.InDelta(t, 2.5, c.RatePerSec, 1e-9)
	assert.Equal(t, 4, c.MirrorWorkers, "bad integers fall back to the default")
}

func TestLoad_UnknownStorageFallsBackToFile(t *testing.T) {
	t.Setenv("HBNB_TYPE_STORAGE", "mongo")
	assert.Equal(t, "file", Load().StorageType)
}

func TestLoad_UserDSNForcesParseTime(t *testing.T) {
	t.Setenv("MYSQL_DSN", "u:p@tcp(h:3306)/db?loc=Local&charset=utf8mb4")
	dsn := Load().MySQLDSN
	assert.Contains(t, dsn, "u:p@tcp(h:3306)/db?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.NotContains(t, dsn, "loc=Local")

	t.Setenv("MYSQL_DSN", "not a dsn")
	assert.Equal(t, "not a dsn", Load().MySQLDSN)
}
