package store

import (
	"wakely/models"

	"github.com/jinzhu/gorm"
)

// Tamanho máximo de um lote de lookup por igualdade (limite do mecanismo de
// consulta de membership).
const CONTACT_MATCH_BATCH_SIZE = 10

// ContactMatch é uma identidade registrada encontrada a partir de um
// fingerprint da agenda do usuário.
type ContactMatch struct {
	UserID          int64  `json:"user_id"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
	Hash            string `json:"hash"`
}

// MatchContacts resolve fingerprints para usuários registrados em lotes de
// CONTACT_MATCH_BATCH_SIZE. O merge deduplica por identidade e o próprio
// chamador nunca aparece no resultado (mesmo que o hash dele esteja na
// entrada). Qualquer lote que falhe derruba a chamada inteira: a consulta é
// idempotente, então o cliente simplesmente tenta de novo do zero.
func MatchContacts(db *gorm.DB, fingerprints []string, excludeUserID int64) ([]ContactMatch, error) {
	if len(fingerprints) == 0 {
		return []ContactMatch{}, nil
	}

	seen := make(map[int64]bool)
	matches := []ContactMatch{}

	for start := 0; start < len(fingerprints); start += CONTACT_MATCH_BATCH_SIZE {
		end := start + CONTACT_MATCH_BATCH_SIZE
		if end > len(fingerprints) {
			end = len(fingerprints)
		}
		batch := fingerprints[start:end]

		var users []models.User
		if err := db.Where("phone_number_hash IN (?)", batch).Find(&users).Error; err != nil {
			return nil, err
		}

		for _, user := range users {
			if user.ID == excludeUserID {
				continue
			}
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			matches = append(matches, ContactMatch{
				UserID:          user.ID,
				DisplayName:     user.Name,
				ProfileImageURL: user.ProfileImageURL,
				Hash:            user.PhoneNumberHash,
			})
		}
	}

	return matches, nil
}
