package model

type Review struct {
	ID        int    `json:"id"`
	UserID    int32  `json:"userId"`
	BookID    int    `json:"bookId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedTs int64  `json:"createdAt"`

	User *UserSummary `json:"user,omitempty"`
	Book *BookSummary `json:"book,omitempty"`
}

type FindReview struct {
	ID     *int
	UserID *int32
	BookID *int

	Limit  *int
	Offset *int
}

type UpdateReview struct {
	ID int

	Rating  *int
	Comment *string
}

type ReviewCreateRequest struct {
	BookID  int    `json:"bookId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}
