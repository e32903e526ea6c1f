// Package storage is the read-side object store behind the listing
// endpoint. Backends register a factory by provider name:
//
//   - local: a directory on disk
//   - s3: Amazon S3 or any S3-compatible service (MinIO, R2)
//   - supabase: Supabase Storage over its REST API
//
// Import the backend package for its side effect before calling New:
//
//	import _ "github.com/kbukum/slideshow/storage/local"
package storage
