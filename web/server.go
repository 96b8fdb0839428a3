package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodbye-jack/ldap-sync/syncer"
	"github.com/pkg/errors"
)

// NewRouter exposes the sync triggers and the run status. Either
// engine may be nil when the deployment runs in the other mode only.
func NewRouter(master *syncer.Master, slave *syncer.Slave, sup *syncer.Supervisor) *gin.Engine {
	router := gin.Default()

	router.GET("/sync/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, sup.Status())
	})

	router.POST("/sync/master", func(c *gin.Context) {
		if master == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "master sync not configured"})
			return
		}
		// the pass outlives the request
		trigger(c, master.TriggerAsync(context.Background()))
	})

	router.POST("/sync/slave", func(c *gin.Context) {
		if slave == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "slave sync not configured"})
			return
		}
		trigger(c, slave.TriggerAsync(context.Background()))
	})

	return router
}

func trigger(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	case errors.Is(err, syncer.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
