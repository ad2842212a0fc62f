package controllers

import (
	"net/http"
	"time"

	dbpkg "wakely/db"
	"wakely/models"
	"wakely/tools"

	"github.com/gin-gonic/gin"
)

func CheckUserExists(c *gin.Context, phone string) (bool, *models.User) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return false, nil
	}

	var user models.User
	if err := db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return false, nil
	}
	return true, &user
}

// CreateUser cria a conta em status PENDING com código de verificação.
// O telefone é normalizado pra forma canônica e o fingerprint (hash one-way
// usado no matching de contatos) é calculado aqui, uma única vez.
func CreateUser(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	user := models.User{}
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := user.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if tools.CheckPassword(user.Password) != "" {
		RespondError(c, "Senha muito curta", http.StatusBadRequest)
		return
	}

	phone, err := tools.NormalizePhone(user.Phone, conf.Phone.DefaultCountryCode)
	if err != nil {
		RespondError(c, "Telefone inválido!", http.StatusBadRequest)
		return
	}
	user.Phone = phone
	user.PhoneNumberHash = tools.Fingerprint(phone)

	exists, _ := CheckUserExists(c, phone)
	if exists {
		RespondError(c, "Usuário já existe", http.StatusBadRequest)
		return
	}

	user.Password = encodePassword(phone, user.Password)
	user.Status = models.USER_STATUS_PENDING

	codeLen := conf.Security.VerifyCodeLen
	if codeLen <= 0 {
		codeLen = 6
	}
	code := tools.RandomNumbers(codeLen)
	exp := time.Now().Add(24 * time.Hour)
	user.VerifyCode = code
	user.VerifyExpiresAt = &exp

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// O envio do código por SMS fica com o provedor configurado no installer
	// (fora do core). Em dev, o código está no banco.
	user.Password = ""
	RespondSuccess(c, user)
}

func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type pushTokenRequest struct {
	PushToken string `json:"push_token" form:"push_token"`
}

// UpdatePushToken registra o endereço de push do device do usuário.
// Token vazio é válido: significa opt-out (o sweeper pula amigos sem token).
func UpdatePushToken(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req pushTokenRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("push_token", req.PushToken).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "updated"})
}
