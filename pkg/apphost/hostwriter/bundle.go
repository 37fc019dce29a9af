package hostwriter

import (
	"encoding/binary"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

// SetAsBundle records bundleHeaderOffset in the 8-byte little-endian field
// immediately preceding the bundle signature, marking the apphost as a
// single-file bundle. The signature is the search anchor, so an apphost that
// was already marked can be re-marked with a new offset.
//
// An apphost without the signature predates bundle support; that is a
// template-integrity failure, not "not a bundle".
func SetAsBundle(appHostPath string, bundleHeaderOffset int64, logger hclog.Logger) error {
	err := fileRetryPolicy().Run(logger, "mark bundle", func() error {
		view, err := openMappedView(NormalizeForWrite(appHostPath), true)
		if err != nil {
			return err
		}

		off, found := searchInView(view.data, bundleSignature)
		if !found || off < bundleOffsetFieldSize {
			view.close()
			return apperrors.ErrBundleMarkerNotFound
		}

		binary.LittleEndian.PutUint64(view.data[off-bundleOffsetFieldSize:off], uint64(bundleHeaderOffset))
		if err := view.close(); err != nil {
			return err
		}

		// Mapped writes bypass the usual modification-time update.
		now := time.Now().UTC()
		return os.Chtimes(appHostPath, now, now)
	})
	if err != nil {
		return err
	}

	logger.Info("✅ Marked apphost as single-file bundle",
		"apphost", appHostPath,
		"header_offset", bundleHeaderOffset)
	return nil
}

// IsBundle reports whether the apphost carries single-file bundle metadata,
// along with the recorded header offset. A zero offset is the "not a bundle"
// sentinel left in place by CreateAppHost.
func IsBundle(appHostPath string, logger hclog.Logger) (bool, int64, error) {
	var offset int64

	err := fileRetryPolicy().Run(logger, "detect bundle", func() error {
		view, err := openMappedView(NormalizeForWrite(appHostPath), false)
		if err != nil {
			return err
		}

		off, found := searchInView(view.data, bundleSignature)
		if !found || off < bundleOffsetFieldSize {
			view.close()
			return apperrors.ErrBundleMarkerNotFound
		}

		offset = int64(binary.LittleEndian.Uint64(view.data[off-bundleOffsetFieldSize : off]))
		return view.close()
	})
	if err != nil {
		return false, 0, err
	}

	logger.Debug("Read bundle header offset", "apphost", appHostPath, "offset", offset)
	return offset != 0, offset, nil
}
