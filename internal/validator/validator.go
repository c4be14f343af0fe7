package validator

import (
	"strings"

	"digesto/internal/models"
)

func IsValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	return title != "" && len(title) <= models.MaxTitleLen
}

func IsValidSummary(summary string) bool {
	return len(summary) <= models.MaxSummaryLen
}

func IsValidNumber(number string) bool {
	number = strings.TrimSpace(number)
	return number != "" && len(number) <= models.MaxNumberLen
}

func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 100
}

func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

func IsValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}
