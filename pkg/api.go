package pkg

import (
	"github.com/provide-io/apphost/go/apphost/pkg/apphost/hostwriter"
	"github.com/provide-io/apphost/go/apphost/pkg/logging"
)

// CreateAppHost patches templatePath into an apphost at destinationPath that
// launches appBinaryPath, with default options and ambient logging settings.
func CreateAppHost(templatePath, destinationPath, appBinaryPath string) error {
	logger := logging.NewLogger("apphost", logging.GetLogLevel(""), nil)
	return hostwriter.CreateAppHost(hostwriter.CreateOptions{
		TemplatePath:    templatePath,
		DestinationPath: destinationPath,
		AppBinaryPath:   appBinaryPath,
	}, logger)
}

// CreateAppHostWithOptions exposes the full option surface.
func CreateAppHostWithOptions(opts hostwriter.CreateOptions) error {
	logger := logging.NewLogger("apphost", logging.GetLogLevel(""), nil)
	return hostwriter.CreateAppHost(opts, logger)
}

// SetAsBundle records the bundle metadata offset in an existing apphost.
func SetAsBundle(appHostPath string, bundleHeaderOffset int64) error {
	logger := logging.NewLogger("apphost", logging.GetLogLevel(""), nil)
	return hostwriter.SetAsBundle(appHostPath, bundleHeaderOffset, logger)
}

// IsBundle reports whether the apphost is a single-file bundle and at which
// offset its bundle metadata starts.
func IsBundle(appHostPath string) (bool, int64, error) {
	logger := logging.NewLogger("apphost", logging.GetLogLevel(""), nil)
	return hostwriter.IsBundle(appHostPath, logger)
}
