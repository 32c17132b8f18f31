package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	require := require.New(t)

	custom, err := Initialize("./config.example.toml")
	require.Nil(err)

	require.Equal("45.152.160.28", custom.Node.Host)
	require.Equal(21841, custom.Node.Port)
	require.Equal(5*time.Second, custom.Client.ConnectTimeout)
	require.Equal(30*time.Second, custom.Client.ReadTimeout)
	require.Equal(10*time.Second, custom.Client.WriteTimeout)
	require.Equal(2, custom.Log.Level)
	require.Equal("", custom.Log.Filter)
}

func TestConfigMissing(t *testing.T) {
	require := require.New(t)

	custom, err := Initialize("./config.missing.toml")
	require.NotNil(err)
	require.Nil(custom)
}
