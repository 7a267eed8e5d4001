package guardians

import (
	"strings"

	"github.com/haven-app/haven/internal/shared"
)

func validateFields(f Fields) error {
	if strings.TrimSpace(f.Name) == "" ||
		strings.TrimSpace(f.Email) == "" ||
		strings.TrimSpace(f.Phone) == "" ||
		strings.TrimSpace(f.Relationship) == "" {
		return shared.ErrValidation
	}
	return nil
}
