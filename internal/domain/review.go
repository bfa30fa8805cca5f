package domain

import "time"

type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewPending  ReviewStatus = "pending"
	ReviewFlagged  ReviewStatus = "flagged"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewApproved, ReviewPending, ReviewFlagged, ReviewRejected:
		return true
	}
	return false
}

// Visible reports whether the review is shown on public café pages.
// Flagged reviews stay up until a moderator rejects them.
func (s ReviewStatus) Visible() bool {
	return s == ReviewApproved || s == ReviewFlagged
}

type Review struct {
	ID          string       `json:"id"`
	CafeID      string       `json:"cafeId"`
	UserID      *string      `json:"userId,omitempty"`
	UserName    string       `json:"userName"`
	UserAvatar  string       `json:"userAvatar,omitempty"`
	Rating      int          `json:"rating"`
	StudyRating *int         `json:"studyRating,omitempty"`
	WifiRating  *int         `json:"wifiRating,omitempty"`
	NoiseRating *int         `json:"noiseRating,omitempty"`
	Comment     string       `json:"comment"`
	CreatedAt   time.Time    `json:"createdAt"`
	Helpful     int          `json:"helpful"`
	Status      ReviewStatus `json:"status"`
}
