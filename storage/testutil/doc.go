// Package testutil provides an in-memory storage backend for tests.
//
// The Component implements storage.Storage and testutil.TestComponent, so
// it can be dropped into a component registry or driven from a test:
//
//	store := testutil.NewComponent()
//	roottestutil.T(t).Setup(store)
//	store.Put("images/img1.jpg", jpegBytes)
package testutil
