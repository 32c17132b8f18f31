package config

import "time"

const (
	BuildVersion = "v0.1.2-BUILD_VERSION"

	DefaultNodePort = 21841

	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
)
