// Package kvstore persists string-keyed JSON entries in SQLite and keeps
// space accounting against a fixed storage ceiling.
package kvstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qac/internal/quiz"

	_ "modernc.org/sqlite"
)

// 参照 localStorage 的 UTF-16 计费方式 / Entries are billed like localStorage: 2 bytes per char
const bytesPerChar = 2

// DefaultTotalBytes 默认存储上限 5 MiB / Default storage ceiling, 5 MiB
const DefaultTotalBytes = 5 * 1024 * 1024

// DefaultLowSpacePct 触发清理的剩余空间阈值 / Remaining-space threshold that triggers cleanup
const DefaultLowSpacePct = 20.0

// StorageFailure 序列化或写入失败 / StorageFailure reports a serialization or write failure
type StorageFailure struct {
	Key string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage failure for key %q: %v", e.Key, e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

// SpaceInfo 空间使用报告 / SpaceInfo is a storage space report
type SpaceInfo struct {
	UsedBytes    int
	TotalBytes   int
	RemainingPct float64
}

// Options 打开存储的可选配置 / Options configures an opened store
type Options struct {
	TotalBytes  int
	LowSpacePct float64
	Logger      *quiz.Logger
}

// Store 基于 SQLite (WAL 模式) 的键值存储
// Store is a SQLite-backed (WAL mode) key-value store
type Store struct {
	db          *sql.DB
	path        string
	totalBytes  int
	lowSpacePct float64
	logger      *quiz.Logger

	onLowSpace func()
	sweeping   bool
}

// Open 创建并初始化数据库 / Open creates and initializes the database
func Open(dbPath string, opts Options) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("kvstore path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if opts.TotalBytes <= 0 {
		opts.TotalBytes = DefaultTotalBytes
	}
	if opts.LowSpacePct <= 0 {
		opts.LowSpacePct = DefaultLowSpacePct
	}

	store := &Store{
		db:          db,
		path:        dbPath,
		totalBytes:  opts.TotalBytes,
		lowSpacePct: opts.LowSpacePct,
		logger:      opts.Logger,
	}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetLowSpaceHook 注册空间不足时同步调用的回调（通常是保留引擎的清扫）
// SetLowSpaceHook registers the callback invoked synchronously on low space
// (normally the retention engine's sweep)
func (s *Store) SetLowSpaceHook(fn func()) {
	s.onLowSpace = fn
}

// Set 序列化并写入一个条目；任何失败都以 StorageFailure 报告，且总是触发空间检查
// Set serializes and persists one entry. Failures are reported as
// StorageFailure; a space check runs after every call, success or not.
func (s *Store) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.checkSpace()
		return &StorageFailure{Key: key, Err: err}
	}
	return s.SetRaw(key, string(data))
}

// SetRaw 直接写入已序列化的 JSON 值；同步合并与导入使用（绕过记录校验，见设计文档）
// SetRaw persists an already-serialized JSON value. Used by sync merge and
// import, which bypass record-level validation.
func (s *Store) SetRaw(key, raw string) error {
	_, err := s.db.Exec(`INSERT INTO entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, raw)
	if err != nil {
		s.checkSpace()
		return &StorageFailure{Key: key, Err: err}
	}
	s.logger.Logf("storage set: %s", key)
	s.checkSpace()
	return nil
}

// Get 读取并反序列化一个条目；缺失或损坏返回 false（损坏只记日志，不上抛）
// Get reads and deserializes one entry. Missing or corrupt entries return
// false; corruption is logged, never surfaced.
func (s *Store) Get(key string, out any) bool {
	raw, ok := s.GetRaw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Logf("storage get %s: corrupt entry: %v", key, err)
		return false
	}
	return true
}

// GetRaw 读取原始 JSON 值 / GetRaw reads the raw JSON value
func (s *Store) GetRaw(key string) (string, bool) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM entries WHERE key=?`, key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Logf("storage get %s: %v", key, err)
		}
		return "", false
	}
	return raw, true
}

// Remove 删除条目，尽力而为 / Remove deletes an entry, best effort
func (s *Store) Remove(key string) {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE key=?`, key); err != nil {
		s.logger.Logf("storage remove %s: %v", key, err)
		return
	}
	s.logger.Logf("storage removed: %s", key)
}

// Clear 清空全部条目，尽力而为 / Clear removes all entries, best effort
func (s *Store) Clear() {
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		s.logger.Logf("storage clear: %v", err)
		return
	}
	s.logger.Logf("storage cleared")
}

// Keys 返回全部键 / Keys returns all stored keys
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Entries 返回全部键和原始值 / Entries returns all keys with raw values
func (s *Store) Entries() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		entries[key] = value
	}
	return entries, rows.Err()
}

// utf16Units 按 UTF-16 码元计数, 中日韩字符计 1, 增补平面字符计 2
// utf16Units counts UTF-16 code units: one per BMP rune, two per
// supplementary-plane rune. Space accounting bills per code unit, not per
// UTF-8 byte, so CJK text is charged the same 2 bytes per character.
func utf16Units(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

// SpaceReport 按 (键长+值长)*2 统计占用空间, 长度为 UTF-16 码元数
// SpaceReport sums (key length + value length) * 2 over all entries against
// the ceiling, lengths in UTF-16 code units
func (s *Store) SpaceReport() SpaceInfo {
	info := SpaceInfo{TotalBytes: s.totalBytes, RemainingPct: 100}
	entries, err := s.Entries()
	if err != nil {
		s.logger.Logf("space report: %v", err)
		return info
	}
	used := 0
	for key, value := range entries {
		used += (utf16Units(key) + utf16Units(value)) * bytesPerChar
	}
	info.UsedBytes = used
	info.RemainingPct = float64(s.totalBytes-used) / float64(s.totalBytes) * 100
	return info
}

// checkSpace 在剩余空间低于阈值时同步触发清理回调；回调期间的写入不会再次触发
// checkSpace invokes the low-space hook synchronously when remaining space
// drops below the threshold. Writes issued by the hook itself do not re-enter.
func (s *Store) checkSpace() {
	info := s.SpaceReport()
	s.logger.Logf("storage space: used %.2fMB, remaining %.2f%%",
		float64(info.UsedBytes)/1024/1024, info.RemainingPct)

	if info.RemainingPct >= s.lowSpacePct {
		return
	}
	s.logger.Logf("storage space low, starting cleanup")
	if s.onLowSpace == nil || s.sweeping {
		return
	}
	s.sweeping = true
	s.onLowSpace()
	s.sweeping = false
}

// LowSpace 当前是否处于空间不足状态 / LowSpace reports whether space is currently low
func (s *Store) LowSpace() bool {
	return s.SpaceReport().RemainingPct < s.lowSpacePct
}
