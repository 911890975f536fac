package model //import "github.com/bookverse/bookverse/model"

type Book struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Language    string `json:"language"`
	// Content is only populated on single-book reads, list queries skip it.
	Content    string `json:"content,omitempty"`
	CoverImage string `json:"coverImage"`
	PageCount  int    `json:"pageCount"`
	IsPublic   bool   `json:"isPublic"`
	UploadedBy int32  `json:"uploadedBy"`
	CreatedTs  int64  `json:"createdAt"`

	Uploader *UserSummary `json:"uploader,omitempty"`
	Chapters []*Chapter   `json:"chapters,omitempty"`
}

// BookSummary is the slice of a book attached to reviews and bookmarks.
type BookSummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"coverImage"`
}

func (b *Book) Summary() *BookSummary {
	return &BookSummary{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		CoverImage: b.CoverImage,
	}
}

// BookWithRating decorates a book with its aggregated review data.
// Every endpoint that returns a book applies this decoration.
type BookWithRating struct {
	*Book
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

type Chapter struct {
	ID        int    `json:"id"`
	BookID    int    `json:"bookId"`
	Title     string `json:"title"`
	StartPage int    `json:"startPage"`
	EndPage   int    `json:"endPage"`
	ItemOrder int    `json:"order"`

	Subchapters []*Subchapter `json:"subchapters,omitempty"`
}

type Subchapter struct {
	ID        int    `json:"id"`
	ChapterID int    `json:"chapterId"`
	Title     string `json:"title"`
	Page      int    `json:"page"`
	ItemOrder int    `json:"order"`
}

type FindBook struct {
	ID         *int
	Genre      *string
	Language   *string
	IsPublic   *bool
	UploadedBy *int32
	// Query matches title, author or description, case-insensitively.
	Query *string

	// WithContent includes the book content column in the result.
	WithContent bool

	Limit  *int
	Offset *int
}

type UpdateBook struct {
	ID int

	Title       *string
	Author      *string
	Description *string
	Genre       *string
	Language    *string
	Content     *string
	CoverImage  *string
	PageCount   *int
	IsPublic    *bool
}

// ChapterCreate is the nested-chapters payload accepted on book creation,
// decoded from the multipart "chapters" form field.
type ChapterCreate struct {
	Title       string             `json:"title"`
	StartPage   int                `json:"startPage"`
	EndPage     int                `json:"endPage"`
	Subchapters []SubchapterCreate `json:"subchapters"`
}

type SubchapterCreate struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

type BookCreateRequest struct {
	Title       string
	Author      string
	Description string
	Genre       string
	Language    string
	Content     string
	IsPublic    bool
	Chapters    []ChapterCreate
}
