package controllers

import (
	"net/http"

	dbpkg "wakely/db"
	"wakely/models"
	"wakely/store"

	"github.com/gin-gonic/gin"
)

// CreateFriendRequest manda um pedido de amizade.
// Rota: POST /api/friend-requests
func CreateFriendRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.FriendRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := req.MissingFields(); missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var recipient models.User
	if err := db.First(&recipient, req.RecipientID).Error; err != nil {
		RespondError(c, "destinatário não encontrado", http.StatusNotFound)
		return
	}

	created, err := store.CreateFriendRequest(db, user.ID, recipient.ID)
	if err != nil {
		switch err {
		case store.ErrSelfRequest, store.ErrAlreadyFriends, store.ErrRequestInFlight:
			RespondError(c, err.Error(), http.StatusConflict)
		default:
			RespondError(c, err.Error(), http.StatusBadRequest)
		}
		return
	}

	RespondSuccess(c, created)
}

// ListFriendRequests lista os pedidos pendentes do usuário (mandados e
// recebidos).
// Rota: GET /api/friend-requests
func ListFriendRequests(c *gin.Context) {
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

	var incoming, outgoing []models.FriendRequest
	if err := db.
		Where("recipient_id = ? AND status = ?", user.ID, models.FRIEND_REQUEST_STATUS_PENDING).
		Order("created_at desc").
		Find(&incoming).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := db.
		Where("requester_id = ? AND status = ?", user.ID, models.FRIEND_REQUEST_STATUS_PENDING).
		Order("created_at desc").
		Find(&outgoing).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"incoming": incoming, "outgoing": outgoing})
}

func loadFriendRequest(c *gin.Context) (*models.FriendRequest, bool) {
	id, ok := ParamID(c, "id")
	if !ok {
		return nil, false
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return nil, false
	}

	var req models.FriendRequest
	if err := db.First(&req, id).Error; err != nil {
		RespondError(c, "pedido não encontrado", http.StatusNotFound)
		return nil, false
	}
	return &req, true
}

// AcceptFriendRequest aceita um pedido recebido: consome o request e cria a
// amizade nas duas direções de uma vez.
// Rota: POST /api/friend-requests/:id/accept
func AcceptFriendRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := loadFriendRequest(c)
	if !ok {
		return
	}
	if req.RecipientID != user.ID {
		RespondError(c, "só o destinatário pode aceitar", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	edgeID, err := store.AcceptFriendRequest(db, req.ID)
	if err != nil {
		if err == store.ErrInvalidState {
			RespondError(c, "pedido já resolvido", http.StatusConflict)
			return
		}
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "accepted", "edge_id": edgeID})
}

// DeclineFriendRequest recusa um pedido recebido.
// Rota: POST /api/friend-requests/:id/decline
func DeclineFriendRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := loadFriendRequest(c)
	if !ok {
		return
	}
	if req.RecipientID != user.ID {
		RespondError(c, "só o destinatário pode recusar", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if err := store.DeclineFriendRequest(db, req.ID); err != nil {
		if err == store.ErrInvalidState {
			RespondError(c, "pedido já resolvido", http.StatusConflict)
			return
		}
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "declined"})
}

// CancelFriendRequest cancela um pedido que o próprio usuário mandou.
// Rota: POST /api/friend-requests/:id/cancel
func CancelFriendRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := loadFriendRequest(c)
	if !ok {
		return
	}
	if req.RequesterID != user.ID {
		RespondError(c, "só quem mandou pode cancelar", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if err := store.CancelFriendRequest(db, req.ID); err != nil {
		if err == store.ErrInvalidState {
			RespondError(c, "pedido já resolvido", http.StatusConflict)
			return
		}
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "cancelled"})
}

// GetFriends lista os amigos do usuário (lado dele das arestas, com os
// metadados cacheados de nome/foto).
// Rota: GET /api/friends
func GetFriends(c *gin.Context) {
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

	friends, err := store.ListFriends(db, user.ID)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"friends": friends})
}

// RemoveFriend desfaz a amizade (as duas direções).
// Rota: DELETE /api/friends/:id  (:id = user id do amigo)
func RemoveFriend(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	friendID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if err := store.RemoveFriend(db, user.ID, friendID); err != nil {
		if err == store.ErrNotFound {
			RespondError(c, "amizade não encontrada", http.StatusNotFound)
			return
		}
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "removed"})
}
