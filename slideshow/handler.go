package slideshow

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/server"
)

// Handler exposes the rotator's state to the page.
type Handler struct {
	rotator *Rotator
}

func NewHandler(r *Rotator) *Handler {
	return &Handler{rotator: r}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/slideshow/current", h.Current)
	r.GET("/slideshow/images", h.Images)
}

// Current returns the committed slide. While nothing is committed it
// returns the rotator's error, or a null slide during the first load.
func (h *Handler) Current(c *gin.Context) {
	if s, ok := h.rotator.Current(); ok {
		server.RespondOK(c, gin.H{"slide": s})
		return
	}
	if err := h.rotator.LastError(); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"slide": nil})
}

// Images returns the playlist names in display order.
func (h *Handler) Images(c *gin.Context) {
	images := h.rotator.Images()
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Name
	}
	server.RespondOK(c, gin.H{"images": names})
}
