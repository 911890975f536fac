package store

import (
	"fmt"
	"strings"

	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"go.uber.org/zap"
)

func (s *Store) GetUser(find *model.FindUser) (*model.User, error) {
	if find.ID != nil {
		if cache, ok := s.userCache.Load(*find.ID); ok {
			return cache.(*model.User), nil
		}
	}

	list, err := s.ListUsers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Store(user.ID, user)
	return user, nil
}

func (s *Store) ListUsers(find *model.FindUser) ([]*model.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}

	// Here will return password_hash, so need to be careful.
	// The model hides it from JSON, never log the scanned rows.
	query := `
		SELECT
			id,
			email,
			password_hash,
			name,
			avatar_url,
			created_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("sql query", zap.String("query", query), zap.Any("args", args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Debug("Error querying users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.AvatarURL,
			&user.CreatedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// CreateUser inserts a new account. A duplicate email trips the unique
// constraint and yields ErrAlreadyExists.
func (s *Store) CreateUser(create *model.User) (*model.User, error) {
	stmt := `
		INSERT INTO user (
			email,
			password_hash,
			name,
			avatar_url
		) VALUES (?, ?, ?, ?)
		RETURNING id, email, password_hash, name, avatar_url, created_ts`
	args := []any{create.Email, create.PasswordHash, create.Name, create.AvatarURL}

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User
	if err := tx.QueryRow(stmt, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedTs,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.userCache.Store(user.ID, &user)
	return &user, nil
}

func (s *Store) UpdateUser(update *model.UpdateUser) (*model.User, error) {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.AvatarURL; v != nil {
		set, args = append(set, "avatar_url = ?"), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return s.GetUser(&model.FindUser{ID: &update.ID})
	}
	args = append(args, update.ID)

	stmt := `
		UPDATE user SET ` + strings.Join(set, ", ") + `
		WHERE id = ?
		RETURNING id, email, password_hash, name, avatar_url, created_ts`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User
	if err := tx.QueryRow(stmt, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.userCache.Store(user.ID, &user)
	return &user, nil
}

// GetUserStats counts the resources a user owns, shown on the profile page.
func (s *Store) GetUserStats(userID int32) (*model.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(1) FROM book WHERE uploaded_by = ?),
			(SELECT COUNT(1) FROM library_item WHERE user_id = ?),
			(SELECT COUNT(1) FROM bookmark WHERE user_id = ?),
			(SELECT COUNT(1) FROM review WHERE user_id = ?)`
	args := []any{userID, userID, userID, userID}

	var stats model.UserStats
	if err := s.db.QueryRow(query, args...).Scan(
		&stats.UploadedBooks,
		&stats.LibraryItems,
		&stats.Bookmarks,
		&stats.Reviews,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
