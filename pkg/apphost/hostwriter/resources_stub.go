//go:build !windows
// +build !windows

package hostwriter

import (
	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

// copyResources is unavailable off Windows: native resource editing depends
// on the PE resource tooling that only ships in the Windows build. Callers
// that request it anyway get a hard failure, not a silent skip.
func copyResources(destPath, sourcePath string, logger hclog.Logger) error {
	return apperrors.ErrResourceUpdateUnsupported
}
