// Package provider calls the configured question-generation endpoint and
// returns the raw model text for extraction.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"qac/internal/defaults"
	"qac/internal/quiz"
)

// ErrTimeout 网络超时；与一般网络错误区分上报
// ErrTimeout is a network timeout, surfaced distinctly from NetworkError
var ErrTimeout = errors.New("network timeout")

// ErrPromptTooLong 提示词超过 token 预算 / ErrPromptTooLong means the prompt exceeds the token budget
var ErrPromptTooLong = errors.New("prompt exceeds token budget")

// NetworkError 非 2xx 或传输失败；携带端点与请求体便于诊断
// NetworkError is a non-2xx response or transport failure, carrying the
// endpoint and request body for diagnosis
type NetworkError struct {
	Endpoint    string
	Status      int
	RequestBody string
	Body        string
	Err         error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("request to %s failed: status=%d body=%s request=%s",
			e.Endpoint, e.Status, strings.TrimSpace(e.Body), e.RequestBody)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Fetcher 题目生成客户端 / Fetcher is the question-generation client
type Fetcher struct {
	httpClient  *http.Client
	promptLimit int
	tokenizer   *Tokenizer
	logger      *quiz.Logger
}

// NewFetcher 创建带超时的客户端；promptLimit <= 0 表示不限制提示词长度
// NewFetcher creates a client with a bounded timeout; promptLimit <= 0
// disables the prompt token budget
func NewFetcher(timeoutMS, promptLimit int, logger *quiz.Logger) *Fetcher {
	timeout := time.Duration(timeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: timeout},
		promptLimit: promptLimit,
		tokenizer:   DefaultTokenizer(),
		logger:      logger,
	}
}

// FetchQuestionText 请求模型返回题目文本。qwen 系列走 DashScope 信封，
// 其余模型走 OpenAI 兼容路径；temperature 固定 0.7。
// FetchQuestionText asks the model for question text. qwen-family models use
// the DashScope envelope; everything else goes through the OpenAI-compatible
// path. Temperature is fixed at 0.7.
func (f *Fetcher) FetchQuestionText(ctx context.Context, settings quiz.Settings) (string, error) {
	prompt := settings.APIPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = defaults.Prompt
	}

	tokens := f.tokenizer.Count(prompt)
	f.logger.Logf("prompt tokens: %d", tokens)
	if f.promptLimit > 0 && tokens > f.promptLimit {
		return "", fmt.Errorf("%w: %d > %d", ErrPromptTooLong, tokens, f.promptLimit)
	}

	if strings.HasPrefix(settings.APIModel, "qwen") {
		return f.fetchQwen(ctx, settings, prompt)
	}
	return f.fetchOpenAI(ctx, settings, prompt)
}

// classifyTransportErr 区分超时与一般网络错误
// classifyTransportErr distinguishes timeouts from plain network errors
func classifyTransportErr(endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, endpoint, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, endpoint, err)
	}
	return &NetworkError{Endpoint: endpoint, Err: err}
}
