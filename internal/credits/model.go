package credits

import "time"

// Balance is a user's credit snapshot.
type Balance struct {
	UserID    string    `json:"userId"`
	Credits   int       `json:"credits"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Scan is one recorded analysis run.
type Scan struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Filename string    `json:"filename"`
	FileType string    `json:"fileType"`
	ScanDate time.Time `json:"scanDate"`
}
