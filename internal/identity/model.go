package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/scheduling"
)

// Languages a patient may register with, as offered by the clinic intake
// desk: the eleven official South African languages.
var Languages = []string{
	"English", "Afrikaans", "isiNdebele", "isiXhosa", "isiZulu",
	"Sepedi", "Sesotho", "Setswana", "siSwati", "Tshivenḓa", "Xitsonga",
}

func SupportedLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

type Patient struct {
	ID           uuid.UUID
	IDNumber     string // national ID number, the unique credential
	Name         string
	DateOfBirth  time.Time
	Language     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Practitioner struct {
	ID             uuid.UUID
	PracticeNumber string // unique practice credential
	Name           string
	Specialty      *string
	WorkHours      scheduling.WorkHours
	PasswordHash   string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
