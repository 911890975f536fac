package store

import (
	"fmt"

	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"go.uber.org/zap"
)

// Shared join fragment: every shelf listing carries the book (minus content)
// and its uploader summary.
const joinedBookColumns = `
			b.id,
			b.title,
			b.author,
			b.description,
			b.genre,
			b.language,
			b.cover_image,
			b.page_count,
			b.is_public,
			b.uploaded_by,
			b.created_ts,
			u.name,
			u.avatar_url`

func joinedBookDest(book *model.Book, uploader *model.UserSummary) []any {
	return []any{
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
}

func attachUploader(book *model.Book, uploader *model.UserSummary) *model.Book {
	uploader.ID = book.UploadedBy
	book.Uploader = uploader
	return book
}

// ===== Library items =====

func (s *Store) ListLibraryItems(userID int32) ([]*model.LibraryItem, error) {
	query := `
		SELECT
			li.id,
			li.user_id,
			li.book_id,
			li.added_ts,` + joinedBookColumns + `
		FROM library_item li
		JOIN book b ON b.id = li.book_id
		JOIN user u ON u.id = b.uploaded_by
		WHERE li.user_id = ? ORDER BY li.added_ts DESC`

	log.Debug("sql query", zap.String("query", query), zap.Int32("user_id", userID))

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.LibraryItem, 0)
	for rows.Next() {
		var item model.LibraryItem
		var book model.Book
		var uploader model.UserSummary
		dest := append([]any{&item.ID, &item.UserID, &item.BookID, &item.AddedTs}, joinedBookDest(&book, &uploader)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		item.Book = &model.BookWithRating{Book: attachUploader(&book, &uploader)}
		list = append(list, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) AddLibraryItem(userID int32, bookID int) (*model.LibraryItem, error) {
	stmt := `
		INSERT INTO library_item (
			user_id,
			book_id
		) VALUES (?,?)
		RETURNING id, user_id, book_id, added_ts`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var item model.LibraryItem
	if err := tx.QueryRow(stmt, userID, bookID).Scan(
		&item.ID,
		&item.UserID,
		&item.BookID,
		&item.AddedTs,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Store) RemoveLibraryItem(userID int32, bookID int) error {
	return s.removePairRow("library_item", userID, bookID)
}

// removePairRow deletes a (user, book) row from the given shelf table and
// reports ErrNotFound when nothing matched.
func (s *Store) removePairRow(table string, userID int32, bookID int) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND book_id = ?`, table)
	args := []any{userID, bookID}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	result, err := tx.Exec(stmt, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ===== Bookmarks =====

func (s *Store) ListBookmarks(userID int32) ([]*model.Bookmark, error) {
	query := `
		SELECT
			bm.id,
			bm.user_id,
			bm.book_id,
			bm.page,
			bm.note,
			bm.created_ts,` + joinedBookColumns + `
		FROM bookmark bm
		JOIN book b ON b.id = bm.book_id
		JOIN user u ON u.id = b.uploaded_by
		WHERE bm.user_id = ? ORDER BY bm.created_ts DESC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Bookmark, 0)
	for rows.Next() {
		var bm model.Bookmark
		var book model.Book
		var uploader model.UserSummary
		dest := append([]any{&bm.ID, &bm.UserID, &bm.BookID, &bm.Page, &bm.Note, &bm.CreatedTs}, joinedBookDest(&book, &uploader)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		bm.Book = attachUploader(&book, &uploader)
		list = append(list, &bm)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// UpsertBookmark keeps at most one bookmark per (user, book) with
// last-write-wins semantics, resolved atomically by the conflict clause.
func (s *Store) UpsertBookmark(userID int32, bookID, page int, note string) (*model.Bookmark, error) {
	stmt := `
		INSERT INTO bookmark (
			user_id,
			book_id,
			page,
			note
		) VALUES (?,?,?,?)
		ON CONFLICT(user_id, book_id) DO UPDATE
		SET
			page = EXCLUDED.page,
			note = EXCLUDED.note
		RETURNING id, user_id, book_id, page, note, created_ts`
	args := []any{userID, bookID, page, note}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	var bm model.Bookmark
	if err := tx.QueryRow(stmt, args...).Scan(
		&bm.ID,
		&bm.UserID,
		&bm.BookID,
		&bm.Page,
		&bm.Note,
		&bm.CreatedTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &bm, nil
}

func (s *Store) RemoveBookmark(userID int32, bookID int) error {
	return s.removePairRow("bookmark", userID, bookID)
}

// ===== Reading progress =====

func (s *Store) ListReadingProgress(userID int32, bookID *int) ([]*model.ReadingProgress, error) {
	where, args := "rp.user_id = ?", []any{userID}
	if bookID != nil {
		where += " AND rp.book_id = ?"
		args = append(args, *bookID)
	}

	query := `
		SELECT
			rp.id,
			rp.user_id,
			rp.book_id,
			rp.current_page,
			rp.total_pages,
			rp.progress_percent,
			rp.last_read_ts,` + joinedBookColumns + `
		FROM reading_progress rp
		JOIN book b ON b.id = rp.book_id
		JOIN user u ON u.id = b.uploaded_by
		WHERE ` + where + ` ORDER BY rp.last_read_ts DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.ReadingProgress, 0)
	for rows.Next() {
		var rp model.ReadingProgress
		var book model.Book
		var uploader model.UserSummary
		dest := append(
			[]any{&rp.ID, &rp.UserID, &rp.BookID, &rp.CurrentPage, &rp.TotalPages, &rp.ProgressPercent, &rp.LastReadTs},
			joinedBookDest(&book, &uploader)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rp.Book = attachUploader(&book, &uploader)
		list = append(list, &rp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) UpsertReadingProgress(create *model.ReadingProgress) (*model.ReadingProgress, error) {
	stmt := `
		INSERT INTO reading_progress (
			user_id,
			book_id,
			current_page,
			total_pages,
			progress_percent
		) VALUES (?,?,?,?,?)
		ON CONFLICT(user_id, book_id) DO UPDATE
		SET
			current_page = EXCLUDED.current_page,
			total_pages = EXCLUDED.total_pages,
			progress_percent = EXCLUDED.progress_percent,
			last_read_ts = strftime('%s', 'now')
		RETURNING id, user_id, book_id, current_page, total_pages, progress_percent, last_read_ts`
	args := []any{create.UserID, create.BookID, create.CurrentPage, create.TotalPages, create.ProgressPercent}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	var rp model.ReadingProgress
	if err := tx.QueryRow(stmt, args...).Scan(
		&rp.ID,
		&rp.UserID,
		&rp.BookID,
		&rp.CurrentPage,
		&rp.TotalPages,
		&rp.ProgressPercent,
		&rp.LastReadTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &rp, nil
}

// ===== Recently read =====

func (s *Store) ListRecentlyRead(userID int32, limit int) ([]*model.RecentlyRead, error) {
	query := `
		SELECT
			rr.id,
			rr.user_id,
			rr.book_id,
			rr.read_ts,` + joinedBookColumns + `
		FROM recently_read rr
		JOIN book b ON b.id = rr.book_id
		JOIN user u ON u.id = b.uploaded_by
		WHERE rr.user_id = ? ORDER BY rr.read_ts DESC LIMIT ?`

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.RecentlyRead, 0)
	for rows.Next() {
		var rr model.RecentlyRead
		var book model.Book
		var uploader model.UserSummary
		dest := append([]any{&rr.ID, &rr.UserID, &rr.BookID, &rr.ReadTs}, joinedBookDest(&book, &uploader)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rr.Book = &model.BookWithRating{Book: attachUploader(&book, &uploader)}
		list = append(list, &rr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// UpsertRecentlyRead refreshes the read timestamp on repeat access.
func (s *Store) UpsertRecentlyRead(userID int32, bookID int) (*model.RecentlyRead, error) {
	stmt := `
		INSERT INTO recently_read (
			user_id,
			book_id
		) VALUES (?,?)
		ON CONFLICT(user_id, book_id) DO UPDATE
		SET
			read_ts = strftime('%s', 'now')
		RETURNING id, user_id, book_id, read_ts`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rr model.RecentlyRead
	if err := tx.QueryRow(stmt, userID, bookID).Scan(
		&rr.ID,
		&rr.UserID,
		&rr.BookID,
		&rr.ReadTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &rr, nil
}

// PruneRecentlyRead trims a user's history to the keep newest rows. Run by
// the janitor pool, not on the request path.
func (s *Store) PruneRecentlyRead(userID int32, keep int) error {
	stmt := `
		DELETE FROM recently_read
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM recently_read
			WHERE user_id = ? ORDER BY read_ts DESC LIMIT ?
		)`
	args := []any{userID, userID, keep}

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

// ===== Downloads =====

func (s *Store) ListDownloads(userID int32) ([]*model.Download, error) {
	query := `
		SELECT
			d.id,
			d.user_id,
			d.book_id,
			d.downloaded_ts,` + joinedBookColumns + `
		FROM download d
		JOIN book b ON b.id = d.book_id
		JOIN user u ON u.id = b.uploaded_by
		WHERE d.user_id = ? ORDER BY d.downloaded_ts DESC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Download, 0)
	for rows.Next() {
		var d model.Download
		var book model.Book
		var uploader model.UserSummary
		dest := append([]any{&d.ID, &d.UserID, &d.BookID, &d.DownloadedTs}, joinedBookDest(&book, &uploader)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.Book = attachUploader(&book, &uploader)
		list = append(list, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// AddDownload is create-once, a duplicate yields ErrAlreadyExists.
func (s *Store) AddDownload(userID int32, bookID int) (*model.Download, error) {
	stmt := `
		INSERT INTO download (
			user_id,
			book_id
		) VALUES (?,?)
		RETURNING id, user_id, book_id, downloaded_ts`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var d model.Download
	if err := tx.QueryRow(stmt, userID, bookID).Scan(
		&d.ID,
		&d.UserID,
		&d.BookID,
		&d.DownloadedTs,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *Store) RemoveDownload(userID int32, bookID int) error {
	return s.removePairRow("download", userID, bookID)
}
