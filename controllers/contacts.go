package controllers

import (
	"net/http"

	dbpkg "wakely/db"
	"wakely/store"

	"github.com/gin-gonic/gin"
)

type matchContactsRequest struct {
	Fingerprints []string `json:"fingerprints"`
}

// MatchContacts resolve fingerprints da agenda do usuário para contas
// registradas. O cliente manda os hashes (nunca números crus); o servidor
// responde só quem já está no app, excluindo o próprio chamador.
// Rota: POST /api/contacts/match
func MatchContacts(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req matchContactsRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	matches, err := store.MatchContacts(db, req.Fingerprints, user.ID)
	if err != nil {
		// sem resultado parcial: o cliente re-tenta a operação inteira
		RespondError(c, err.Error(), http.StatusBadGateway)
		return
	}

	RespondSuccess(c, gin.H{"matches": matches})
}
