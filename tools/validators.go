package tools

func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}
