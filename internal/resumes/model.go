package resumes

import "time"

// Resume is one stored analysis. ResumeText is the extracted plain text; it
// is kept for future re-analysis but excluded from history listings. The
// stored document keys the owner under "user".
type Resume struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	UserID        string    `bson:"user" json:"userId"`
	FileName      string    `bson:"fileName" json:"fileName"`
	FileURL       string    `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	JobTitle      string    `bson:"jobTitle" json:"jobTitle"`
	ResumeText    string    `bson:"resumeText" json:"resumeText,omitempty"`
	Score         string    `bson:"score" json:"score"`
	KeySkills     []string  `bson:"keySkills" json:"keySkills"`
	MissingSkills []string  `bson:"missingSkills" json:"missingSkills"`
	Strengths     []string  `bson:"strengths" json:"strengths"`
	Weaknesses    []string  `bson:"weaknesses" json:"weaknesses"`
	Suggestions   []string  `bson:"suggestions" json:"suggestions"`
	Summary       string    `bson:"summary" json:"summary"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DayStat is one calendar day of analysis activity, date formatted
// YYYY-MM-DD.
type DayStat struct {
	Date    string `bson:"date" json:"date"`
	Resumes int    `bson:"resumes" json:"resumes"`
}
