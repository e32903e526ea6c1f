package slideshow

import (
	"strconv"
	"strings"
	"time"
)

// cacheBustSpread is the exclusive upper bound of the random offset.
const cacheBustSpread = 100000

// CacheBust appends t=<unix millis + random offset> so every attempt is a
// distinct URL. rnd returns a value in [0, n).
func CacheBust(rawURL string, now time.Time, rnd func(n int64) int64) string {
	return withQuery(rawURL, cacheBustParam(now, rnd))
}

func cacheBustParam(now time.Time, rnd func(n int64) int64) string {
	return "t=" + strconv.FormatInt(now.UnixMilli()+rnd(cacheBustSpread), 10)
}

// withQuery appends an encoded key=value pair, or returns rawURL when q is
// empty.
func withQuery(rawURL, q string) string {
	if q == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q
}
