package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwagate/internal/ledger"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Ledger.Backend)
	assert.False(t, cfg.Server.FaucetEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Cosign.MaxAge)
	assert.Equal(t, ledger.DefaultRent, cfg.Rent())
	assert.Empty(t, cfg.Kafka.Brokers)

	id, err := cfg.ProgramID()
	require.NoError(t, err)
	assert.Equal(t, "u2LHcL4X3qhrJfmzkhinuPqEcctJPyosegum6Tdi5Nk", id.String())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RWAGATE_LEDGER_BACKEND", " Redis ")
	t.Setenv("RWAGATE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RWAGATE_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,kafka-1:9092")
	t.Setenv("RWAGATE_RENT_LAMPORTS_PER_BYTE_YEAR", "10")
	t.Setenv("RWAGATE_FAUCET_ENABLED", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Ledger.Backend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, uint64(10), cfg.Rent().LamportsPerByteYear)
	assert.True(t, cfg.Server.FaucetEnabled)
}

func TestFromEnvRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown backend":      {"RWAGATE_LEDGER_BACKEND": "etcd"},
		"postgres without url": {"RWAGATE_LEDGER_BACKEND": "postgres"},
		"redis without url":    {"RWAGATE_LEDGER_BACKEND": "redis"},
		"bad program id":       {"RWAGATE_PROGRAM_ID": "not-base58-0OIl"},
		"zero exemption":       {"RWAGATE_RENT_EXEMPTION_YEARS": "0"},
		"bad duration":         {"RWAGATE_COSIGN_MAX_AGE": "soon"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
