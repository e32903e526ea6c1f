// Package config loads service configuration from config.yml, an optional
// .env file and the process environment using viper and godotenv.
//
// Environment variables override file values by path, so GALLERY_PREFIX
// sets gallery.prefix and SLIDESHOW_INTERVAL sets slideshow.interval.
package config
