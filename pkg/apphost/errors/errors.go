package errors

import "errors"

var (
	// Configuration errors 🧭
	ErrAppBinaryPathTooLong = errors.New("❌ application binary path exceeds placeholder capacity (1024 bytes)")

	// Template integrity errors 📦
	ErrPlaceholderNotFound  = errors.New("❌ app binary path placeholder not found in apphost template")
	ErrBundleMarkerNotFound = errors.New("❌ bundle marker not found in apphost")

	// Format errors 🪟
	ErrNotPEImage = errors.New("❌ apphost is not a Windows PE image")

	// Platform errors 🚧
	ErrResourceUpdateUnsupported = errors.New("❌ apphost resource customization is not supported on this OS")
)
