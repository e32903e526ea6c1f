// Package redis provides a go-redis client under the component lifecycle
// and a shared store for gallery listings.
//
// Replicas behind a load balancer share listings through it, so a folder is
// read from storage once per TTL rather than once per replica:
//
//	client, _ := redis.New(cfg.Redis, log)
//	cache := gallery.NewCache(lister, ttl,
//	    gallery.WithSharedStore(redis.NewListingStore(client, "slideshow"), log))
package redis
