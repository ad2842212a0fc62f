package controllers

import (
	"net/http"
	"time"

	dbpkg "wakely/db"
	"wakely/models"
	"wakely/tools"

	"github.com/gin-gonic/gin"
)

// VerifyPhoneByCode ativa a conta do usuário logado quando o código de
// verificação confere e ainda não expirou.
// Rota: POST /api/user/verify/:code
func VerifyPhoneByCode(c *gin.Context) {
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

	if user.Status == models.USER_STATUS_AVAILABLE {
		RespondSuccess(c, gin.H{"status": "already_active"})
		return
	}

	code := c.Param("code")
	if code == "" || user.VerifyCode == "" || code != user.VerifyCode {
		RespondError(c, "código inválido", http.StatusBadRequest)
		return
	}
	if user.VerifyExpiresAt != nil && time.Now().After(*user.VerifyExpiresAt) {
		RespondError(c, "código expirado", http.StatusBadRequest)
		return
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"status":      models.USER_STATUS_AVAILABLE,
			"verify_code": "",
		}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "verified"})
}

// ResendVerifyCode gera outro código de verificação para o usuário logado.
// Rota: POST /api/user/resend-code
//
// Obs: o código vai por SMS (provedor via installer); não devolvemos no payload.
func ResendVerifyCode(c *gin.Context) {
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

	if user.Status == models.USER_STATUS_AVAILABLE {
		RespondSuccess(c, gin.H{"status": "already_active"})
		return
	}

	codeLen := conf.Security.VerifyCodeLen
	if codeLen <= 0 {
		codeLen = 6
	}
	newCode := tools.RandomNumbers(codeLen)
	exp := time.Now().Add(24 * time.Hour)

	if err := db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"verify_code":       newCode,
			"verify_expires_at": &exp,
		}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"status": "sent"})
}
