package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var static embed.FS

// Files returns the embedded page assets rooted at static/.
func Files() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Register serves the slideshow page at /.
func Register(r gin.IRouter) {
	page, err := fs.ReadFile(Files(), "index.html")
	if err != nil {
		panic(err)
	}
	serve := func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
	r.GET("/", serve)
	r.HEAD("/", serve)
}
