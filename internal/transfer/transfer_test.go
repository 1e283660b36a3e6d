package transfer

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qac/internal/kvstore"
	"qac/internal/quiz"
)

func newTestStore(t *testing.T) *kvstore.Store {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "qac.db"), kvstore.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestExport_RedactsAPIKey(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(quiz.KeySettings, quiz.Settings{APIModel: "qwen-max", APIKey: "sk-real"}); err != nil {
		t.Fatalf("set settings: %v", err)
	}
	if err := store.Set("2025-05-01", quiz.NewDailyRecord()); err != nil {
		t.Fatalf("set record: %v", err)
	}

	out, err := Export(store)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(out), "sk-real") {
		t.Fatal("export leaked the API key")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	var settings quiz.Settings
	if err := json.Unmarshal(doc[quiz.KeySettings], &settings); err != nil {
		t.Fatalf("decode exported settings: %v", err)
	}
	if settings.APIKey != "***" {
		t.Fatalf("APIKey=%q, want placeholder", settings.APIKey)
	}
	if settings.APIModel != "qwen-max" {
		t.Fatalf("APIModel=%q, other fields must survive", settings.APIModel)
	}
	if _, ok := doc["2025-05-01"]; !ok {
		t.Fatal("daily record missing from export")
	}
}

func TestImport_ReplacesStoreAndKeepsLocalKey(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(quiz.KeySettings, quiz.Settings{APIModel: "old-model", APIKey: "sk-local"}); err != nil {
		t.Fatalf("set settings: %v", err)
	}
	if err := store.Set("2025-01-01", quiz.NewDailyRecord()); err != nil {
		t.Fatalf("set stale record: %v", err)
	}

	doc := `{
  "system_settings": {"apiModel":"qwen-max","apiUrl":"","apiKey":"***","apiPrompt":"","syncUrl":"","debugMode":false},
  "2025-06-01": {"submitted":true,"correctCount":4,"totalQuestions":5},
  "completed_count": 7
}`
	n, err := Import(store, []byte(doc))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported=%d, want 3", n)
	}

	// 导入是整体替换，旧记录不应幸存 / import replaces everything, stale keys go
	var stale quiz.DailyRecord
	if store.Get("2025-01-01", &stale) {
		t.Fatal("stale record survived import")
	}

	var settings quiz.Settings
	if !store.Get(quiz.KeySettings, &settings) {
		t.Fatal("settings missing after import")
	}
	if settings.APIKey != "sk-local" {
		t.Fatalf("APIKey=%q, want local key rehydrated", settings.APIKey)
	}
	if settings.APIModel != "qwen-max" {
		t.Fatalf("APIModel=%q, want imported value", settings.APIModel)
	}

	var count int
	if !store.Get(quiz.KeyCompletedCount, &count) || count != 7 {
		t.Fatalf("completed_count=%d, want 7", count)
	}
}

func TestImport_RealKeyInDocumentWins(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(quiz.KeySettings, quiz.Settings{APIKey: "sk-local"}); err != nil {
		t.Fatalf("set settings: %v", err)
	}

	doc := `{"system_settings": {"apiModel":"","apiUrl":"","apiKey":"sk-imported","apiPrompt":"","syncUrl":"","debugMode":false}}`
	if _, err := Import(store, []byte(doc)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	var settings quiz.Settings
	if !store.Get(quiz.KeySettings, &settings) || settings.APIKey != "sk-imported" {
		t.Fatalf("APIKey=%q, want imported key kept verbatim", settings.APIKey)
	}
}

func TestImport_MalformedDocument(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(quiz.KeyCompletedCount, 2); err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	if _, err := Import(store, []byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}

	// 解析失败发生在清空之前，原数据完好 / parse fails before the wipe, data intact
	var count int
	if !store.Get(quiz.KeyCompletedCount, &count) || count != 2 {
		t.Fatalf("completed_count=%d, want untouched 2", count)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "task_data_2025-07-09.json" {
		t.Fatalf("filename=%q", got)
	}
}
