package httpclient

import "github.com/kbukum/slideshow/security"

// TLSConfig is the shared transport TLS configuration.
type TLSConfig = security.TLSConfig
