package hostwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

// DefaultAppHostMode is the POSIX mode applied to the destination on
// non-Windows targets: owner rwx, group/other rx.
const DefaultAppHostMode = 0o755

// CreateOptions describes one apphost to produce.
type CreateOptions struct {
	// TemplatePath is the prebuilt generic apphost executable.
	TemplatePath string

	// DestinationPath is where the patched apphost is written.
	DestinationPath string

	// AppBinaryPath is the relative or absolute path to the managed payload,
	// embedded into the placeholder region. Its UTF-8 encoding must not
	// exceed MaxAppBinaryPathBytes.
	AppBinaryPath string

	// WindowsGUI flips the PE subsystem to "Windows GUI". Requesting it for a
	// non-PE destination fails with ErrNotPEImage.
	WindowsGUI bool

	// ResourceSourcePath optionally names a PE image whose version, icon and
	// manifest resources are copied into the destination.
	ResourceSourcePath string

	// Mode overrides the POSIX permissions applied on non-Windows targets.
	// Zero means DefaultAppHostMode.
	Mode uint32
}

// CreateAppHost copies the template to the destination and patches it into a
// launcher for the given payload. The outcome is all-or-nothing: any failure
// after the first byte is written removes the destination again, so callers
// never observe a half-patched apphost.
func CreateAppHost(opts CreateOptions, logger hclog.Logger) error {
	pathBytes := []byte(opts.AppBinaryPath)
	if len(pathBytes) > MaxAppBinaryPathBytes {
		// Reported before any file is touched.
		return fmt.Errorf("%w: %q is %d bytes", apperrors.ErrAppBinaryPathTooLong, opts.AppBinaryPath, len(pathBytes))
	}

	dest := NormalizeForWrite(opts.DestinationPath)
	resourceSource := ""
	if opts.ResourceSourcePath != "" {
		resourceSource = NormalizeForWrite(opts.ResourceSourcePath)
	}
	mode := opts.Mode
	if mode == 0 {
		mode = DefaultAppHostMode
	}

	logger.Info("Creating apphost",
		"template", opts.TemplatePath,
		"destination", opts.DestinationPath,
		"app_binary", opts.AppBinaryPath,
		"gui", opts.WindowsGUI)

	if err := writeAppHost(opts.TemplatePath, dest, pathBytes, opts.WindowsGUI, resourceSource, mode, logger); err != nil {
		return cleanupOnError(dest, err, logger)
	}
	return nil
}

// writeAppHost runs the guarded stages in order. Each stage returns what the
// next one needs; the PE-ness of the destination is computed once during the
// rewrite and threaded through explicitly.
func writeAppHost(template, dest string, pathBytes []byte, gui bool, resourceSource string, mode uint32, logger hclog.Logger) error {
	retryIO := fileRetryPolicy()

	if err := retryIO.Run(logger, "copy template", func() error {
		return copyFile(template, dest)
	}); err != nil {
		return err
	}

	// Permission bits go on first: the cheap, low-risk step runs before any
	// content mutation so the file stays loadable metadata-wise throughout.
	if runtime.GOOS != "windows" {
		if err := setFilePermissions(dest, mode, logger); err != nil {
			return err
		}
	}

	var isPE bool
	if err := retryIO.Run(logger, "rewrite apphost", func() error {
		var rewriteErr error
		isPE, rewriteErr = rewriteAppHost(dest, pathBytes, gui, logger)
		return rewriteErr
	}); err != nil {
		return err
	}

	if resourceSource != "" && isPE {
		if err := resourceRetryPolicy().Run(logger, "copy resources", func() error {
			return copyResources(dest, resourceSource, logger)
		}); err != nil {
			return err
		}
	}

	if err := retryIO.Run(logger, "strip code signature", func() error {
		_, stripErr := removeCodeSignature(dest, logger)
		return stripErr
	}); err != nil {
		return err
	}

	// Mapped writes do not refresh the modification time on their own.
	if err := retryIO.Run(logger, "refresh timestamp", func() error {
		now := time.Now().UTC()
		return os.Chtimes(dest, now, now)
	}); err != nil {
		return err
	}

	logger.Info("✅ Apphost created", "destination", dest, "pe_image", isPE)
	return nil
}

// rewriteAppHost performs the mapped patch sequence: embed the payload path,
// detect PE-ness and optionally flip the subsystem. The view is released
// before returning so later stages can reopen the file through their own
// handles.
func rewriteAppHost(dest string, pathBytes []byte, gui bool, logger hclog.Logger) (bool, error) {
	view, err := openMappedView(dest, true)
	if err != nil {
		return false, err
	}

	if err := searchAndReplace(view.data, appBinaryPathPlaceholder(), pathBytes, true); err != nil {
		view.close()
		return false, err
	}
	logger.Debug("Embedded app binary path", "bytes", len(pathBytes))

	isPE := isPEImage(view.data)
	if gui {
		if !isPE {
			view.close()
			return false, apperrors.ErrNotPEImage
		}
		if err := setWindowsGUISubsystem(view.data); err != nil {
			view.close()
			return false, err
		}
		logger.Debug("Set Windows GUI subsystem")
	}

	if err := view.close(); err != nil {
		return false, err
	}
	return isPE, nil
}

// cleanupOnError removes the partially written destination so the failure is
// all-or-nothing. A failed removal is reported together with the original
// error.
func cleanupOnError(dest string, cause error, logger hclog.Logger) error {
	logger.Error("❌ Apphost creation failed, removing destination",
		"destination", dest,
		"error", cause)

	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return errors.Join(cause, fmt.Errorf("failed to remove partially written apphost %s: %w", dest, err))
	}
	return cause
}

// copyFile copies src to dst as a plain byte stream, truncating any existing
// destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open template %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy template to %s: %w", dst, err)
	}
	return out.Close()
}
