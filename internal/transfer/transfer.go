// Package transfer serializes the whole store to a JSON document and back,
// for file-based backup and restore.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"qac/internal/kvstore"
	"qac/internal/quiz"
)

// keyPlaceholder 导出文件里替代真实 API 密钥的占位符
// keyPlaceholder stands in for the real API key in exported files
const keyPlaceholder = "***"

// ExportFilename 返回带当天日期的导出文件名
// ExportFilename returns the export filename stamped with today's date
func ExportFilename(now time.Time) string {
	return "task_data_" + quiz.FormatDateKey(now) + ".json"
}

// Export 导出全部条目为缩进 JSON。API 密钥以占位符替换，不随文件外泄。
// Export renders every entry as indented JSON. The API key is replaced with a
// placeholder so it never leaves with the file.
func Export(store *kvstore.Store) ([]byte, error) {
	entries, err := store.Entries()
	if err != nil {
		return nil, fmt.Errorf("collect entries: %w", err)
	}

	doc := make(map[string]json.RawMessage, len(entries))
	for key, value := range entries {
		if key == quiz.KeySettings {
			var settings quiz.Settings
			if err := json.Unmarshal([]byte(value), &settings); err != nil {
				return nil, fmt.Errorf("decode settings: %w", err)
			}
			settings.APIKey = keyPlaceholder
			redacted, err := json.Marshal(settings)
			if err != nil {
				return nil, fmt.Errorf("encode settings: %w", err)
			}
			doc[key] = redacted
			continue
		}
		doc[key] = json.RawMessage(value)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// Import 清空存储后写入文档中的全部条目。当导入的设置里密钥是占位符时，
// 沿用清空前本地已有的密钥。
// Import clears the store and writes every entry from the document. When the
// imported settings carry the placeholder key, the key held locally before
// the wipe is kept.
func Import(store *kvstore.Store, data []byte) (int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse import document: %w", err)
	}

	// 清空前先留住本地密钥 / capture the local key before the wipe
	var current quiz.Settings
	store.Get(quiz.KeySettings, &current)

	store.Clear()

	imported := 0
	for key, value := range doc {
		raw := string(value)
		if key == quiz.KeySettings {
			var settings quiz.Settings
			if err := json.Unmarshal(value, &settings); err != nil {
				return imported, fmt.Errorf("decode imported settings: %w", err)
			}
			if settings.APIKey == keyPlaceholder {
				settings.APIKey = current.APIKey
			}
			restored, err := json.Marshal(settings)
			if err != nil {
				return imported, fmt.Errorf("encode imported settings: %w", err)
			}
			raw = string(restored)
		}
		if err := store.SetRaw(key, raw); err != nil {
			return imported, fmt.Errorf("write %s: %w", key, err)
		}
		imported++
	}
	return imported, nil
}
