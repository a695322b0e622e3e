package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("mysql", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverMySQL, User: "root", Password: "pw", Host: "db", Port: 3306,
			DBName: "retailpos", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai"}
		assert.Equal(t, "root:pw@tcp(db:3306)/retailpos?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
	})

	t.Run("postgres默认关闭ssl", func(t *testing.T) {
		d := DatabaseConfig{Driver: DriverPostgres, User: "pos", Password: "pw", Host: "pg", Port: 5432,
			DBName: "retailpos", Loc: "UTC"}
		assert.Equal(t, "host=pg port=5432 user=pos password=pw dbname=retailpos sslmode=disable TimeZone=UTC", d.DSN())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "debug"},
			Database: DatabaseConfig{Driver: DriverMemory},
			JWT:      JWTConfig{Secret: "s"},
			App:      AppConfig{DefaultTaxRate: 12},
		}
	}

	require.NoError(t, validate(valid()))

	cfg := valid()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, validate(cfg))

	cfg = valid()
	cfg.App.DefaultTaxRate = 120
	assert.Error(t, validate(cfg))

	cfg = valid()
	cfg.MQ.Enabled = true
	assert.Error(t, validate(cfg), "启用事件发布必须配置地址")

	cfg = valid()
	cfg.Server.Mode = "release"
	cfg.JWT.Secret = "your-secret-key-change-in-production"
	assert.Error(t, validate(cfg))
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := "server:\n  port: 9000\ndatabase:\n  driver: memory\njwt:\n  secret: s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("RETAILPOS_SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, float64(12), cfg.App.DefaultTaxRate, "未配置时使用默认税率")
	assert.Equal(t, "retailpos.events", cfg.MQ.Exchange)
}
