// Package testutil serves slideshow routes from httptest behind the full
// server middleware stack.
//
//	srv := testutil.NewComponent(galleryHandler.Register)
//	roottestutil.T(t).Setup(srv)
//	resp, err := srv.Get(ctx, "/list?prefix=images/", "gallery.example.com")
//
// Routes are mounted on the rate-limited group the serve command uses, and
// are mounted again after Reset.
package testutil
