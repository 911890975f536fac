package store

import (
	"fmt"
	"strings"

	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"go.uber.org/zap"
)

func (s *Store) GetReview(find *model.FindReview) (*model.Review, error) {
	list, err := s.ListReviews(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListReviews(find *model.FindReview) ([]*model.Review, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "r.id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "r.user_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "r.book_id = ?"), append(args, *v)
	}

	query := `
		SELECT
			r.id,
			r.user_id,
			r.book_id,
			r.rating,
			r.comment,
			r.created_ts,
			u.name,
			u.avatar_url,
			b.title,
			b.author,
			b.cover_image
		FROM review r
		JOIN user u ON u.id = r.user_id
		JOIN book b ON b.id = r.book_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY r.created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if v := find.Offset; v != nil {
			query += fmt.Sprintf(" OFFSET %d", *v)
		}
	}

	log.Debug("sql query", zap.String("query", query), zap.Any("args", args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Review, 0)
	for rows.Next() {
		var review model.Review
		var user model.UserSummary
		var book model.BookSummary
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.BookID,
			&review.Rating,
			&review.Comment,
			&review.CreatedTs,
			&user.Name,
			&user.AvatarURL,
			&book.Title,
			&book.Author,
			&book.CoverImage,
		); err != nil {
			return nil, err
		}
		user.ID = review.UserID
		book.ID = review.BookID
		review.User = &user
		review.Book = &book
		list = append(list, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) CountReviews(bookID int) (int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM review WHERE book_id = ?`, bookID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListBookRatings returns the raw rating values for a book, the input of the
// rating aggregation applied to every returned book.
func (s *Store) ListBookRatings(bookID int) ([]int, error) {
	rows, err := s.db.Query(`SELECT rating FROM review WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ratings, nil
}

// CreateReview inserts a review. One review per (user, book) is enforced by
// the unique constraint, a duplicate yields ErrAlreadyExists.
func (s *Store) CreateReview(create *model.Review) (*model.Review, error) {
	stmt := `
		INSERT INTO review (
			user_id,
			book_id,
			rating,
			comment
		) VALUES (?,?,?,?)
		RETURNING id, created_ts`
	args := []any{create.UserID, create.BookID, create.Rating, create.Comment}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	log.Debug("sql query", zap.String("query", stmt), zap.Any("args", args))

	review := *create
	if err := tx.QueryRow(stmt, args...).Scan(&review.ID, &review.CreatedTs); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &review, nil
}

func (s *Store) UpdateReview(update *model.UpdateReview) (*model.Review, error) {
	set, args := []string{}, []any{}

	if v := update.Rating; v != nil {
		set, args = append(set, "rating = ?"), append(args, *v)
	}
	if v := update.Comment; v != nil {
		set, args = append(set, "comment = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return s.GetReview(&model.FindReview{ID: &update.ID})
	}
	args = append(args, update.ID)

	stmt := `UPDATE review SET ` + strings.Join(set, ", ") + ` WHERE id = ?`

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

	return s.GetReview(&model.FindReview{ID: &update.ID})
}

func (s *Store) RemoveReview(reviewID int) error {
	stmt := `DELETE FROM review WHERE id = ?`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt, reviewID); err != nil {
		return err
	}
	return tx.Commit()
}
