package model

// The per-(user,book) shelf entities. Uniqueness of the pair is enforced by
// the schema, not by handler-level existence checks.

type LibraryItem struct {
	ID      int   `json:"id"`
	UserID  int32 `json:"userId"`
	BookID  int   `json:"bookId"`
	AddedTs int64 `json:"addedAt"`

	Book *BookWithRating `json:"book,omitempty"`
}

type Bookmark struct {
	ID        int    `json:"id"`
	UserID    int32  `json:"userId"`
	BookID    int    `json:"bookId"`
	Page      int    `json:"page"`
	Note      string `json:"note"`
	CreatedTs int64  `json:"createdAt"`

	Book *Book `json:"book,omitempty"`
}

type ReadingProgress struct {
	ID              int     `json:"id"`
	UserID          int32   `json:"userId"`
	BookID          int     `json:"bookId"`
	CurrentPage     int     `json:"currentPage"`
	TotalPages      int     `json:"totalPages"`
	ProgressPercent float64 `json:"progressPercent"`
	LastReadTs      int64   `json:"lastReadAt"`

	Book *Book `json:"book,omitempty"`
}

type RecentlyRead struct {
	ID     int   `json:"id"`
	UserID int32 `json:"userId"`
	BookID int   `json:"bookId"`
	ReadTs int64 `json:"readAt"`

	Book *BookWithRating `json:"book,omitempty"`
}

type Download struct {
	ID           int   `json:"id"`
	UserID       int32 `json:"userId"`
	BookID       int   `json:"bookId"`
	DownloadedTs int64 `json:"downloadedAt"`

	Book *Book `json:"book,omitempty"`
}

type LibraryAddRequest struct {
	BookID int `json:"bookId"`
}

type BookmarkRequest struct {
	BookID int     `json:"bookId"`
	Page   int     `json:"page"`
	Note   *string `json:"note"`
}

type ProgressRequest struct {
	BookID      int `json:"bookId"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}
