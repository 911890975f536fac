package store

import (
	"fmt"
	"strings"

	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"go.uber.org/zap"
)

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := bookFilter(find)

	columns := []string{
		"b.id",
		"b.title",
		"b.author",
		"b.description",
		"b.genre",
		"b.language",
		"b.cover_image",
		"b.page_count",
		"b.is_public",
		"b.uploaded_by",
		"b.created_ts",
		"u.name",
		"u.avatar_url",
	}
	if find.WithContent {
		columns = append(columns, "b.content")
	}

	query := `
		SELECT ` + strings.Join(columns, ", ") + `
		FROM book b
		JOIN user u ON u.id = b.uploaded_by
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY b.created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if v := find.Offset; v != nil {
			query += fmt.Sprintf(" OFFSET %d", *v)
		}
	}

	log.Debug("sql query", zap.String("query", query), zap.Any("args", args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		var uploader model.UserSummary
		dest := []any{
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.Genre,
			&book.Language,
			&book.CoverImage,
			&book.PageCount,
			&book.IsPublic,
			&book.UploadedBy,
			&book.CreatedTs,
			&uploader.Name,
			&uploader.AvatarURL,
		}
		if find.WithContent {
			dest = append(dest, &book.Content)
		}
		if err := rows.Scan(dest...); err != nil {
			log.Error("Failed to scan book", zap.Error(err))
			return nil, err
		}
		uploader.ID = book.UploadedBy
		book.Uploader = &uploader
		list = append(list, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) CountBooks(find *model.FindBook) (int, error) {
	where, args := bookFilter(find)

	query := `SELECT COUNT(1) FROM book b WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func bookFilter(find *model.FindBook) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "b.id = ?"), append(args, *v)
	}
	if v := find.Genre; v != nil {
		where, args = append(where, "b.genre = ?"), append(args, *v)
	}
	if v := find.Language; v != nil {
		where, args = append(where, "b.language = ?"), append(args, *v)
	}
	if v := find.IsPublic; v != nil {
		where, args = append(where, "b.is_public = ?"), append(args, *v)
	}
	if v := find.UploadedBy; v != nil {
		where, args = append(where, "b.uploaded_by = ?"), append(args, *v)
	}
	if v := find.Query; v != nil {
		// LIKE is case-insensitive for ASCII in sqlite.
		pattern := "%" + *v + "%"
		where = append(where, "(b.title LIKE ? OR b.author LIKE ? OR b.description LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	return where, args
}

// CreateBook inserts the book and its nested chapters and subchapters in a
// single transaction, so a failed chapter insert never leaves a partial book.
func (s *Store) CreateBook(create *model.Book, chapters []model.ChapterCreate) (*model.Book, error) {
	stmt := `
		INSERT INTO book (
			title,
			author,
			description,
			genre,
			language,
			content,
			cover_image,
			page_count,
			is_public,
			uploaded_by
		) VALUES (?,?,?,?,?,?,?,?,?,?)
		RETURNING id, created_ts`
	args := []any{
		create.Title,
		create.Author,
		create.Description,
		create.Genre,
		create.Language,
		create.Content,
		create.CoverImage,
		create.PageCount,
		create.IsPublic,
		create.UploadedBy,
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	book := *create
	if err := tx.QueryRow(stmt, args...).Scan(&book.ID, &book.CreatedTs); err != nil {
		return nil, err
	}

	for i, chapter := range chapters {
		var chapterID int
		if err := tx.QueryRow(
			`INSERT INTO chapter (book_id, title, start_page, end_page, item_order)
			 VALUES (?,?,?,?,?) RETURNING id`,
			book.ID, chapter.Title, chapter.StartPage, chapter.EndPage, i+1,
		).Scan(&chapterID); err != nil {
			return nil, err
		}
		for j, sub := range chapter.Subchapters {
			if _, err := tx.Exec(
				`INSERT INTO subchapter (chapter_id, title, page, item_order)
				 VALUES (?,?,?,?)`,
				chapterID, sub.Title, sub.Page, j+1,
			); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &book, nil
}

func (s *Store) UpdateBook(update *model.UpdateBook) (*model.Book, error) {
	set, args := []string{}, []any{}

	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Author; v != nil {
		set, args = append(set, "author = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Genre; v != nil {
		set, args = append(set, "genre = ?"), append(args, *v)
	}
	if v := update.Language; v != nil {
		set, args = append(set, "language = ?"), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = ?"), append(args, *v)
	}
	if v := update.CoverImage; v != nil {
		set, args = append(set, "cover_image = ?"), append(args, *v)
	}
	if v := update.PageCount; v != nil {
		set, args = append(set, "page_count = ?"), append(args, *v)
	}
	if v := update.IsPublic; v != nil {
		set, args = append(set, "is_public = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return s.GetBook(&model.FindBook{ID: &update.ID, WithContent: true})
	}
	args = append(args, update.ID)

	stmt := `UPDATE book SET ` + strings.Join(set, ", ") + ` WHERE id = ?`

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	s.lock.Lock()
	tx, err := s.db.Begin()
	if err != nil {
		s.lock.Unlock()
		return nil, err
	}

	if _, err := tx.Exec(stmt, args...); err != nil {
		tx.Rollback()
		s.lock.Unlock()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.lock.Unlock()
		return nil, err
	}
	s.lock.Unlock()

	return s.GetBook(&model.FindBook{ID: &update.ID, WithContent: true})
}

// RemoveBook deletes the book row. Chapters, reviews and shelf rows cascade.
func (s *Store) RemoveBook(bookID int) error {
	stmt := `DELETE FROM book WHERE id = ?`
	args := []any{bookID}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	if _, err := tx.Exec(stmt, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// ListChapters returns the book's chapters with their subchapters, both in
// item order.
func (s *Store) ListChapters(bookID int) ([]*model.Chapter, error) {
	query := `
		SELECT
			id,
			book_id,
			title,
			start_page,
			end_page,
			item_order
		FROM chapter
		WHERE book_id = ? ORDER BY item_order ASC`

	rows, err := s.db.Query(query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := make([]*model.Chapter, 0)
	byID := make(map[int]*model.Chapter)
	for rows.Next() {
		var chapter model.Chapter
		if err := rows.Scan(
			&chapter.ID,
			&chapter.BookID,
			&chapter.Title,
			&chapter.StartPage,
			&chapter.EndPage,
			&chapter.ItemOrder,
		); err != nil {
			return nil, err
		}
		chapter.Subchapters = make([]*model.Subchapter, 0)
		chapters = append(chapters, &chapter)
		byID[chapter.ID] = &chapter
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return chapters, nil
	}

	subQuery := `
		SELECT
			sc.id,
			sc.chapter_id,
			sc.title,
			sc.page,
			sc.item_order
		FROM subchapter sc
		JOIN chapter c ON c.id = sc.chapter_id
		WHERE c.book_id = ? ORDER BY sc.item_order ASC`

	subRows, err := s.db.Query(subQuery, bookID)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()

	for subRows.Next() {
		var sub model.Subchapter
		if err := subRows.Scan(
			&sub.ID,
			&sub.ChapterID,
			&sub.Title,
			&sub.Page,
			&sub.ItemOrder,
		); err != nil {
			return nil, err
		}
		if chapter, ok := byID[sub.ChapterID]; ok {
			chapter.Subchapters = append(chapter.Subchapters, &sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	return chapters, nil
}
