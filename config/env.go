package config

import (
	"os"
)

// Environment names a runtime environment the config loaders key on.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the current environment. CI detection wins over
// the ENV variable; anything unrecognized falls back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	case "development":
		return Development
	default:
		return Development
	}
}
