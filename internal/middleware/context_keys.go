package middleware

import "github.com/gin-gonic/gin"

// actorHeader names the header through which the host application forwards
// the acting user. Authentication itself happens upstream of this core.
const actorHeader = "X-Actor-ID"

// SystemActor is recorded on entries created without a forwarded actor,
// e.g. scheduler-driven revaluation runs.
const SystemActor = "system"

// GetActorFromContext retrieves the acting user forwarded by the host
// application, falling back to the system actor.
func GetActorFromContext(c *gin.Context) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return SystemActor
}
