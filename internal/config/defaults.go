package config

import (
	"path/filepath"

	"podkit/internal/nsnorm"
)

const (
	defaultDownloadDir        = "~/podkit"
	defaultDataDir            = "~/.local/share/podkit"
	defaultSearchPattern      = "{collectionName} - {artistName}"
	defaultSearchMaxResults   = 10
	defaultSearchBaseURL      = "https://itunes.apple.com/search"
	defaultSearchTimeout      = 10
	defaultMaxLineWidth       = 100
	defaultFilenamePattern    = "{date} {title}"
	defaultListPattern        = "{title}"
	defaultNamespaceToken     = nsnorm.Placeholder
	defaultUserAgent          = "podkit/dev"
	defaultFeedTimeoutSeconds = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxSearchResults          = 200
	minLineWidth              = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			DataDir:     dataHome(),
			LogDir:      filepath.Join(dataHome(), "logs"),
		},
		Search: Search{
			Pattern:        defaultSearchPattern,
			MaxResults:     defaultSearchMaxResults,
			BaseURL:        defaultSearchBaseURL,
			TimeoutSeconds: defaultSearchTimeout,
		},
		Display: Display{
			MaxLineWidth: defaultMaxLineWidth,
		},
		Episodes: Episodes{
			FilenamePattern: defaultFilenamePattern,
			ListPattern:     defaultListPattern,
			NamespaceToken:  defaultNamespaceToken,
			UserAgent:       defaultUserAgent,
			TimeoutSeconds:  defaultFeedTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
