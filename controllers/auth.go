package controllers

import (
	"net/http"
	"time"

	dbpkg "wakely/db"
	"wakely/models"
	"wakely/tools"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// encodePassword aplica o esquema de senha do projeto: sha512 da senha,
// concatena com o telefone canônico como pepper e sha512 de novo.
func encodePassword(phone string, password string) string {
	passwordEncode := tools.EncryptTextSHA512(password)
	passwordEncode = phone + ":" + passwordEncode
	return tools.EncryptTextSHA512(passwordEncode)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Phone == "" || req.Password == "" {
		RespondError(c, "phone e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	phone, err := tools.NormalizePhone(req.Phone, conf.Phone.DefaultCountryCode)
	if err != nil {
		RespondError(c, "telefone inválido", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := db.Where("phone = ?", phone).First(&user).Error; err != nil {
		RespondError(c, "telefone ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if user.Password != encodePassword(user.Phone, req.Password) {
		RespondError(c, "telefone ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if user.Status == models.USER_STATUS_BLOCKED {
		RespondError(c, "usuário bloqueado", http.StatusForbidden)
		return
	}
	// usuários PENDING podem logar: precisam do token pra verificar o telefone;
	// o Authorizer segura o resto das rotas até a conta ficar ativa.

	validDays := conf.Security.TokenValidDays
	if validDays <= 0 {
		validDays = 30
	}

	signed, err := signHS256JWT(getJWTSecret(), map[string]any{
		"sub":   user.ID,
		"phone": user.Phone,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Duration(validDays) * 24 * time.Hour).Unix(),
	})
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	RespondSuccess(c, LoginResponse{Token: signed, User: user})
}
