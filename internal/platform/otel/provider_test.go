package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rwagate/internal/platform/config"
	"rwagate/internal/platform/otel"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), config.TracingConfig{ServiceName: "rwagate-test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	shutdown, err := otel.Setup(context.Background(), config.TracingConfig{
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "rwagate-test",
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
