package extract

import (
	"errors"
	"fmt"
)

// ErrorKind 提取失败类别 / ErrorKind classifies an extraction failure
type ErrorKind int

const (
	// NoJSONFound 文本中找不到平衡的 JSON 片段
	// NoJSONFound means no balanced JSON span exists in the text
	NoJSONFound ErrorKind = iota
	// InvalidJSON 找到片段但无法解析为题目列表
	// InvalidJSON means a span was found but does not parse into questions
	InvalidJSON
)

func (k ErrorKind) String() string {
	switch k {
	case NoJSONFound:
		return "no_json_found"
	case InvalidJSON:
		return "invalid_json"
	default:
		return "unknown"
	}
}

// Error 提取错误；调用方必须上抛而不是静默回退到默认题目
// Error is an extraction failure. Callers on the live-API path must surface
// it to the retry path, never silently substitute default questions.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extract: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind 判断错误是否为指定类别 / IsKind reports whether err is an extract Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
