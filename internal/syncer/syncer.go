// Package syncer pushes the local store to a remote endpoint and merges the
// response back under last-writer-wins-by-key semantics.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"qac/internal/kvstore"
	"qac/internal/quiz"
)

// ErrNoSyncURL 设置里未配置同步地址 / ErrNoSyncURL means no sync URL is configured
var ErrNoSyncURL = fmt.Errorf("sync URL not configured")

// pushPayload 同步请求体；data 含除密码外的所有键
// pushPayload is the sync request body. data carries every key except the
// password entry.
type pushPayload struct {
	DeviceID  string                     `json:"deviceId"`
	Timestamp string                     `json:"timestamp"`
	Data      map[string]json.RawMessage `json:"data"`
}

// pullResponse 同步响应体 / pullResponse is the sync response body
type pullResponse struct {
	Success  bool                       `json:"success"`
	Data     map[string]json.RawMessage `json:"data,omitempty"`
	Password string                     `json:"password,omitempty"`
	Message  string                     `json:"message,omitempty"`
}

// Result 合并统计 / Result reports what a sync merged
type Result struct {
	Pushed int
	Merged int
}

// Reconciler 单次同步的执行者。直接读写底层存储，不经过答题校验。
// Reconciler performs one sync round. It reads and writes the store directly,
// bypassing answer validation.
type Reconciler struct {
	store      *kvstore.Store
	httpClient *http.Client
	logger     *quiz.Logger
	now        func() time.Time
}

// New 创建 Reconciler；timeoutMS <= 0 时默认 30 秒
// New creates a Reconciler. timeoutMS <= 0 defaults to 30 seconds.
func New(store *kvstore.Store, timeoutMS int, logger *quiz.Logger) *Reconciler {
	timeout := time.Duration(timeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Reconciler{
		store:      store,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// DeviceID 返回本机标识，首次调用时生成并持久化
// DeviceID returns the per-installation identifier, generating and persisting
// it on first use
func (r *Reconciler) DeviceID() string {
	var id string
	if r.store.Get(quiz.KeyDeviceID, &id) && id != "" {
		return id
	}
	millis := r.now().UnixMilli()
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 13 {
		suffix = suffix[:13]
	}
	id = "device_" + strconv.FormatInt(millis, 10) + "_" + suffix
	if err := r.store.Set(quiz.KeyDeviceID, id); err != nil {
		r.logger.Logf("persist device id: %v", err)
	}
	return id
}

// Sync 推送本地快照并合并服务端返回的数据
// Sync pushes the local snapshot and merges whatever the server sends back
func (r *Reconciler) Sync(ctx context.Context, settings quiz.Settings) (Result, error) {
	var res Result
	syncURL := strings.TrimSpace(settings.SyncURL)
	if syncURL == "" {
		return res, ErrNoSyncURL
	}

	// 先落库 device_id 以便随快照一起推送
	// Persist device_id first so it rides along with the snapshot.
	deviceID := r.DeviceID()

	entries, err := r.store.Entries()
	if err != nil {
		return res, fmt.Errorf("collect entries: %w", err)
	}
	data := make(map[string]json.RawMessage, len(entries))
	for key, value := range entries {
		// 密码永不上传 / the password never leaves the device
		if key == quiz.KeyPassword {
			continue
		}
		data[key] = json.RawMessage(value)
	}

	payload := pushPayload{
		DeviceID:  deviceID,
		Timestamp: r.now().UTC().Format(time.RFC3339),
		Data:      data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return res, fmt.Errorf("marshal sync payload: %w", err)
	}
	res.Pushed = len(data)
	r.logger.Logf("sync push: %d entries to %s", len(data), syncURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, syncURL, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("create sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("sync request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("read sync response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return res, fmt.Errorf("sync failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed pullResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return res, fmt.Errorf("parse sync response: %w", err)
	}
	if !parsed.Success {
		if parsed.Message != "" {
			return res, fmt.Errorf("sync rejected: %s", parsed.Message)
		}
		return res, fmt.Errorf("sync rejected by server")
	}

	res.Merged = r.merge(parsed)
	return res, nil
}

// merge 按键覆盖本地值。已设置的本地密码永不被远端覆盖。
// merge overwrites local values key by key. A locally set password is never
// replaced by the remote one.
func (r *Reconciler) merge(resp pullResponse) int {
	merged := 0
	hasLocalPassword := r.hasPassword()
	for key, value := range resp.Data {
		if key == quiz.KeyPassword && hasLocalPassword {
			continue
		}
		if err := r.store.SetRaw(key, string(value)); err != nil {
			r.logger.Logf("merge %s: %v", key, err)
			continue
		}
		merged++
	}
	if resp.Password != "" && !r.hasPassword() {
		if err := r.store.Set(quiz.KeyPassword, resp.Password); err != nil {
			r.logger.Logf("merge password: %v", err)
		} else {
			merged++
		}
	}
	return merged
}

func (r *Reconciler) hasPassword() bool {
	var pw string
	return r.store.Get(quiz.KeyPassword, &pw) && pw != ""
}
