package version

// Version is the engine version recorded in every run summary. It is set at
// build time with
// -ldflags "-X github.com/rxtech-lab/argo-backtest/internal/version.Version=v1.2.3".
// A build reporting "main" accepts any engine_version in a config.
var Version = "v1.0.0"

// CheckConfig checks that a config pinned to configVersion can run on this
// build. An empty configVersion is not pinned and always passes.
func CheckConfig(configVersion string) error {
	if configVersion == "" {
		return nil
	}

	return CheckVersionCompatibility(Version, configVersion)
}
