package config

import "github.com/spf13/viper"

// GetRepoRoot returns the repository root the rebuild operates on.
func GetRepoRoot() string {
	return viper.GetString("repo.root")
}

// GetManifestPath returns the path of a manifest overriding the
// embedded default, or "" when the default applies.
func GetManifestPath() string {
	return viper.GetString("manifest.path")
}
