// Package security holds the TLS settings used for outbound connections to
// image sources and storage endpoints with private certificate authorities.
package security
