package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/database"
	"github.com/bookverse/bookverse/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	config.Opts = config.GetDefaultOptions()
	config.Opts.DSN = filepath.Join(t.TempDir(), "test.db")

	db, err := database.NewDB()
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return NewStore(db)
}

func createTestUser(t *testing.T, s *Store, email string) *model.User {
	t.Helper()
	user, err := s.CreateUser(&model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Test Reader",
		AvatarURL:    "https://example.com/avatar.png",
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createTestBook(t *testing.T, s *Store, uploadedBy int32, title string) *model.Book {
	t.Helper()
	book, err := s.CreateBook(&model.Book{
		Title:       title,
		Author:      "Some Author",
		Description: "A test book",
		Genre:       "Fiction",
		Language:    "English",
		Content:     "Once upon a time there was a test.",
		CoverImage:  "/placeholder.svg?height=400&width=300",
		PageCount:   1,
		IsPublic:    true,
		UploadedBy:  uploadedBy,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	return book
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	createTestUser(t, s, "reader@example.com")

	_, err := s.CreateUser(&model.User{
		Email:        "reader@example.com",
		PasswordHash: "other-hash",
		Name:         "Second Reader",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}

	users, err := s.ListUsers(&model.FindUser{})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("Expected a single user row, got %d", len(users))
	}
}

func TestCreateBookWithChapters(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "author@example.com")

	book, err := s.CreateBook(&model.Book{
		Title:       "Layered",
		Author:      "Chapter Author",
		Description: "Nested chapters",
		Genre:       "Fantasy",
		Language:    "English",
		Content:     "chapter one text",
		CoverImage:  "/uploads/cover-x.png",
		PageCount:   12,
		IsPublic:    true,
		UploadedBy:  user.ID,
	}, []model.ChapterCreate{
		{Title: "Part One", StartPage: 1, EndPage: 6, Subchapters: []model.SubchapterCreate{
			{Title: "Opening", Page: 1},
			{Title: "Middle", Page: 3},
		}},
		{Title: "Part Two", StartPage: 7, EndPage: 12},
	})
	if err != nil {
		t.Fatalf("Failed to create book with chapters: %v", err)
	}

	chapters, err := s.ListChapters(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "Part One" || chapters[0].ItemOrder != 1 {
		t.Errorf("Unexpected first chapter %+v", chapters[0])
	}
	if chapters[1].Title != "Part Two" || chapters[1].ItemOrder != 2 {
		t.Errorf("Unexpected second chapter %+v", chapters[1])
	}
	if len(chapters[0].Subchapters) != 2 {
		t.Fatalf("Expected 2 subchapters, got %d", len(chapters[0].Subchapters))
	}
	if chapters[0].Subchapters[1].Title != "Middle" || chapters[0].Subchapters[1].ItemOrder != 2 {
		t.Errorf("Unexpected subchapter %+v", chapters[0].Subchapters[1])
	}
}

func TestReviewUniquePerUserAndBook(t *testing.T) {
	s := newTestStore(t)
	author := createTestUser(t, s, "author@example.com")
	reviewer := createTestUser(t, s, "reviewer@example.com")
	book := createTestBook(t, s, author.ID, "Reviewed")

	if _, err := s.CreateReview(&model.Review{
		UserID: reviewer.ID, BookID: book.ID, Rating: 4, Comment: "solid",
	}); err != nil {
		t.Fatalf("First review failed: %v", err)
	}

	_, err := s.CreateReview(&model.Review{
		UserID: reviewer.ID, BookID: book.ID, Rating: 5, Comment: "changed my mind",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists on duplicate review, got %v", err)
	}

	ratings, err := s.ListBookRatings(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ratings) != 1 || ratings[0] != 4 {
		t.Errorf("Expected the single original rating to survive, got %v", ratings)
	}
}

func TestBookmarkUpsertKeepsOneRow(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "reader@example.com")
	book := createTestBook(t, s, user.ID, "Marked")

	first, err := s.UpsertBookmark(user.ID, book.ID, 10, "start here")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UpsertBookmark(user.ID, book.ID, 42, "actually here")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("Upsert created a new row: %d vs %d", first.ID, second.ID)
	}

	bookmarks, err := s.ListBookmarks(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("Expected one bookmark, got %d", len(bookmarks))
	}
	if bookmarks[0].Page != 42 || bookmarks[0].Note != "actually here" {
		t.Errorf("Last write should win, got %+v", bookmarks[0])
	}
}

func TestReadingProgressUpsert(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "reader@example.com")
	book := createTestBook(t, s, user.ID, "In Progress")

	rp, err := s.UpsertReadingProgress(&model.ReadingProgress{
		UserID: user.ID, BookID: book.ID, CurrentPage: 50, TotalPages: 200, ProgressPercent: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rp.ProgressPercent != 25 {
		t.Errorf("Expected 25%%, got %v", rp.ProgressPercent)
	}

	updated, err := s.UpsertReadingProgress(&model.ReadingProgress{
		UserID: user.ID, BookID: book.ID, CurrentPage: 100, TotalPages: 200, ProgressPercent: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != rp.ID {
		t.Errorf("Upsert created a new row: %d vs %d", rp.ID, updated.ID)
	}

	list, err := s.ListReadingProgress(user.ID, &book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].CurrentPage != 100 || list[0].ProgressPercent != 50 {
		t.Errorf("Unexpected progress list %+v", list)
	}
}

func TestRecentlyReadPrune(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "reader@example.com")

	for i := 0; i < 5; i++ {
		book := createTestBook(t, s, user.ID, "History "+string(rune('A'+i)))
		if _, err := s.UpsertRecentlyRead(user.ID, book.ID); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.PruneRecentlyRead(user.ID, 3); err != nil {
		t.Fatal(err)
	}

	entries, err := s.ListRecentlyRead(user.ID, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected history trimmed to 3, got %d", len(entries))
	}
}

func TestLibraryItemLifecycle(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "reader@example.com")
	book := createTestBook(t, s, user.ID, "Shelved")

	if _, err := s.AddLibraryItem(user.ID, book.ID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.AddLibraryItem(user.ID, book.ID); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists on duplicate, got %v", err)
	}

	items, err := s.ListLibraryItems(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected one library item, got %d", len(items))
	}
	if items[0].Book == nil || items[0].Book.Book.Title != "Shelved" {
		t.Errorf("Joined book missing or wrong: %+v", items[0].Book)
	}
	if items[0].Book.Book.Uploader == nil || items[0].Book.Book.Uploader.ID != user.ID {
		t.Errorf("Uploader summary missing: %+v", items[0].Book.Book.Uploader)
	}

	if err := s.RemoveLibraryItem(user.ID, book.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.RemoveLibraryItem(user.ID, book.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second remove, got %v", err)
	}
}

func TestUpdateBookPartial(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "author@example.com")
	book := createTestBook(t, s, user.ID, "Original Title")

	newTitle := "Updated Title"
	updated, err := s.UpdateBook(&model.UpdateBook{ID: book.ID, Title: &newTitle})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Updated Title" {
		t.Errorf("Title not updated: %q", updated.Title)
	}
	if updated.Author != book.Author || updated.Genre != book.Genre {
		t.Errorf("Untouched fields changed: %+v", updated)
	}
}

func TestRemoveBookCascades(t *testing.T) {
	s := newTestStore(t)
	author := createTestUser(t, s, "author@example.com")
	reviewer := createTestUser(t, s, "reviewer@example.com")
	book := createTestBook(t, s, author.ID, "Doomed")

	if _, err := s.CreateReview(&model.Review{
		UserID: reviewer.ID, BookID: book.ID, Rating: 3, Comment: "fine",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddLibraryItem(reviewer.ID, book.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveBook(book.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	got, err := s.GetBook(&model.FindBook{ID: &book.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("Book still present after removal")
	}

	ratings, err := s.ListBookRatings(book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ratings) != 0 {
		t.Errorf("Reviews survived the cascade: %v", ratings)
	}

	items, err := s.ListLibraryItems(reviewer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("Library items survived the cascade: %d", len(items))
	}
}

func TestGetUserStats(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "busy@example.com")
	other := createTestUser(t, s, "other@example.com")

	book := createTestBook(t, s, user.ID, "Mine")
	otherBook := createTestBook(t, s, other.ID, "Theirs")

	if _, err := s.AddLibraryItem(user.ID, otherBook.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertBookmark(user.ID, book.ID, 1, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateReview(&model.Review{
		UserID: user.ID, BookID: otherBook.ID, Rating: 5, Comment: "great",
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetUserStats(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := model.UserStats{UploadedBooks: 1, LibraryItems: 1, Bookmarks: 1, Reviews: 1}
	if *stats != want {
		t.Errorf("GetUserStats = %+v, want %+v", *stats, want)
	}
}

func TestSystemSecuritySettingPersists(t *testing.T) {
	s := newTestStore(t)

	first, err := s.GetOrInitSystemSecuritySetting()
	if err != nil {
		t.Fatal(err)
	}
	if len(first.JWTSecret) != 32 {
		t.Errorf("Expected a 32-char secret, got %d chars", len(first.JWTSecret))
	}

	second, err := s.GetOrInitSystemSecuritySetting()
	if err != nil {
		t.Fatal(err)
	}
	if first.JWTSecret != second.JWTSecret {
		t.Error("Secret regenerated instead of persisted")
	}
}
