package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("配置项不存在: %s", key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// RecordImport 记录某张表最近一次导入的来源与时间
func (s *Store) RecordImport(kind, sourceName string) error {
	if err := s.SetConfig("import."+kind+".source", sourceName); err != nil {
		return err
	}
	return s.SetConfig("import."+kind+".at", time.Now().Format(time.RFC3339))
}

// LastImport 查询某张表最近一次导入信息，未导入返回空串
func (s *Store) LastImport(kind string) (sourceName, importedAt string) {
	sourceName, _ = s.GetConfig("import." + kind + ".source")
	importedAt, _ = s.GetConfig("import." + kind + ".at")
	return sourceName, importedAt
}
