package controllers

import (
	"net/http"
	"time"

	dbpkg "wakely/db"
	"wakely/store"

	"github.com/gin-gonic/gin"
)

// GetWakeUpStats devolve totais e streaks do próprio chamador.
// Rota: GET /api/stats/wakeup
func GetWakeUpStats(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	stats, err := store.WakeUpStats(db, user.ID, time.Now())
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, stats)
}
