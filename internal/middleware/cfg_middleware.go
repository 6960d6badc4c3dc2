package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/krizhnx/CarnivalLDN-sub000/config"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/notifier"
)

func ConfigMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cfg", cfg)
		c.Next()
	}
}

func GetConfig(c *gin.Context) *config.Config {
	cfg, exists := c.Get("cfg")
	if !exists {
		return nil
	}
	return cfg.(*config.Config)
}

func NotifierMiddleware(n notifier.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("notifier", n)
		c.Next()
	}
}

func GetNotifier(c *gin.Context) notifier.Notifier {
	n, exists := c.Get("notifier")
	if !exists {
		return nil
	}
	return n.(notifier.Notifier)
}
