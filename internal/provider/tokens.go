package provider

import (
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer 提示词 token 计数器；tiktoken 不可用时回退到启发式估算
// Tokenizer counts prompt tokens with tiktoken, falling back to a heuristic
// estimate when the encoding is unavailable
type Tokenizer struct {
	encoder  *tiktoken.Tiktoken
	fallback bool
}

var (
	defaultTokenizer     *Tokenizer
	defaultTokenizerOnce sync.Once
)

// DefaultTokenizer 返回全局 tokenizer / DefaultTokenizer returns the global tokenizer
func DefaultTokenizer() *Tokenizer {
	defaultTokenizerOnce.Do(func() {
		defaultTokenizer = NewTokenizer("cl100k_base")
	})
	return defaultTokenizer
}

// NewTokenizer 创建 tokenizer；离线环境可能没有 BPE 缓存，回退到启发式
// NewTokenizer creates a tokenizer. Offline environments may lack the BPE
// cache; the heuristic fallback is used then.
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// Count 计算文本的 token 数 / Count returns the token count for text
func (t *Tokenizer) Count(text string) int {
	if t == nil || t.fallback || t.encoder == nil {
		return heuristicCount(text)
	}
	return len(t.encoder.Encode(text, nil, nil))
}

// heuristicCount 粗略估算：ASCII 约 4 字符/token，CJK 约 1 字符/token
// heuristicCount is a rough estimate: ~4 chars per token for ASCII, ~1 per
// CJK rune
func heuristicCount(text string) int {
	ascii := 0
	wide := 0
	for _, r := range text {
		if r < 128 {
			ascii++
		} else {
			wide++
		}
	}
	count := ascii/4 + wide
	if count == 0 && utf8.RuneCountInString(text) > 0 {
		count = 1
	}
	return count
}
