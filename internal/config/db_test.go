package config

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSNForcesParseTime(t *testing.T) {
	out, err := normalizeDSN("app:secret@tcp(db:3306)/seats?charset=utf8mb4")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "seats", cfg.DBName)
}

func TestNormalizeDSNOverridesExplicitFalse(t *testing.T) {
	out, err := normalizeDSN("app@tcp(db:3306)/seats?parseTime=false&loc=Local")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
}

func TestNormalizeDSNRejectsBadInput(t *testing.T) {
	_, err := normalizeDSN("")
	assert.Error(t, err)
	_, err = normalizeDSN("app@tcp(db:3306")
	assert.Error(t, err)

	_, err = ConnectDB("")
	assert.Error(t, err)
}
