package emails

import "time"

// Valid tones for a generated email. The data layer stores whatever it is
// given, so the API layer enforces this list.
const (
	ToneFormal     = "Formal"
	ToneCasual     = "Casual"
	TonePersuasive = "Persuasive"
)

// ValidTone reports whether tone is one of the supported options.
func ValidTone(tone string) bool {
	switch tone {
	case ToneFormal, ToneCasual, TonePersuasive:
		return true
	}
	return false
}

// Email is one generated-email record. Count is a legacy field kept for
// stored-document compatibility and always written as zero.
type Email struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	Topic          string    `bson:"topic" json:"topic"`
	Tone           string    `bson:"tone" json:"tone"`
	Description    string    `bson:"description" json:"description"`
	GeneratedEmail string    `bson:"generatedEmail" json:"generatedEmail"`
	Count          int       `bson:"count" json:"count"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Totals aggregates a user's generation volume for the dashboard.
type Totals struct {
	Emails int
	Words  int
}

// DayStat is one calendar day of generation activity, date formatted
// YYYY-MM-DD.
type DayStat struct {
	Date   string `bson:"date" json:"date"`
	Emails int    `bson:"emails" json:"emails"`
	Words  int    `bson:"words" json:"words"`
}
