package handlers

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "portal_flash"

// Flash is a one-shot user notice surviving a redirect.
type Flash struct {
	Level   string // "success", "error", "info"
	Message string
}

// AddFlash queues a notice for the next rendered page. Notices ride a short
// cookie so they work before a session exists (e.g. failed login).
func AddFlash(c *gin.Context, level, message string) {
	existing := pendingFlashes(c)
	existing = append(existing, level+":"+message)
	c.SetCookie(flashCookieName, url.QueryEscape(strings.Join(existing, "\n")), 60, "/", "", false, true)
	c.Set("pendingFlashes", existing)
}

// TakeFlashes returns and clears the queued notices.
func TakeFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}

	var flashes []Flash
	for _, line := range strings.Split(decoded, "\n") {
		level, message, ok := strings.Cut(line, ":")
		if !ok || message == "" {
			continue
		}
		flashes = append(flashes, Flash{Level: level, Message: message})
	}
	return flashes
}

func pendingFlashes(c *gin.Context) []string {
	if v, ok := c.Get("pendingFlashes"); ok {
		if lines, ok := v.([]string); ok {
			return lines
		}
	}
	return nil
}
