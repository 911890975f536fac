package store

import (
	"database/sql"
	"encoding/json"

	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/util"
	"github.com/pkg/errors"
)

func (s *Store) GetSystemSetting(name model.SystemSettingName) (*model.SystemSetting, error) {
	if cache, ok := s.systemSettingCache.Load(name); ok {
		return cache.(*model.SystemSetting), nil
	}

	var setting model.SystemSetting
	err := s.db.QueryRow(`SELECT name, value FROM system_setting WHERE name = ?`, name).Scan(
		&setting.Name,
		&setting.Value,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	s.systemSettingCache.Store(setting.Name, &setting)
	return &setting, nil
}

func (s *Store) UpsertSystemSetting(upsert *model.SystemSetting) (*model.SystemSetting, error) {
	stmt := `
		INSERT INTO system_setting (
			name,
			value
		) VALUES (?,?)
		ON CONFLICT(name) DO UPDATE
		SET
			value = EXCLUDED.value
		RETURNING name, value`

	s.lock.Lock()
	defer s.lock.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var setting model.SystemSetting
	if err := tx.QueryRow(stmt, upsert.Name, upsert.Value).Scan(&setting.Name, &setting.Value); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.systemSettingCache.Store(setting.Name, &setting)
	return &setting, nil
}

// GetOrInitSystemSecuritySetting returns the security setting, generating
// and persisting a fresh JWT secret on first boot.
func (s *Store) GetOrInitSystemSecuritySetting() (*model.SystemSecuritySetting, error) {
	setting, err := s.GetSystemSetting(model.SystemSettingSecurityName)
	if err != nil {
		return nil, err
	}
	if setting != nil {
		var security model.SystemSecuritySetting
		if err := json.Unmarshal([]byte(setting.Value), &security); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal security setting")
		}
		return &security, nil
	}

	secret, err := util.RandomString(32)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate jwt secret")
	}
	security := &model.SystemSecuritySetting{JWTSecret: secret}
	value, err := json.Marshal(security)
	if err != nil {
		return nil, err
	}
	if _, err := s.UpsertSystemSetting(&model.SystemSetting{
		Name:  model.SystemSettingSecurityName,
		Value: string(value),
	}); err != nil {
		return nil, err
	}
	return security, nil
}
