// Package extract turns raw model output into validated question lists:
// a bracket-balanced JSON locator with a line-oriented fallback parser.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"qac/internal/quiz"
)

// LocateJSON 在文本中定位第一个括号平衡的 JSON 片段。
// 以先出现的 `{` 或 `[` 决定容器类型，只对同类括号计数；
// 字符串内容中的异类括号不做防御（与参考实现一致的已知限制）。
// LocateJSON finds the first bracket-balanced JSON span in text. Whichever of
// `{` or `[` occurs first fixes the container kind; only brackets of that same
// kind are counted. Brackets of the other kind inside string literals are not
// defended against; a known limitation kept for data compatibility.
func LocateJSON(text string) (string, error) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	var start int
	var isArray bool
	switch {
	case objStart < 0 && arrStart < 0:
		return "", &Error{Kind: NoJSONFound}
	case objStart < 0:
		start, isArray = arrStart, true
	case arrStart < 0:
		start, isArray = objStart, false
	case arrStart < objStart:
		start, isArray = arrStart, true
	default:
		start, isArray = objStart, false
	}

	openCh, closeCh := byte('{'), byte('}')
	if isArray {
		openCh, closeCh = '[', ']'
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	// 计数器未归零：片段不完整 / Counter never returned to zero: span incomplete.
	return "", &Error{Kind: NoJSONFound}
}

// Questions 两段式提取：定位 JSON 片段并解析为题目列表。
// 定位失败返回 NoJSONFound，解析或校验失败返回 InvalidJSON。
// Questions runs the two-stage contract: locate a JSON span, then parse it
// into questions. Locator failure yields NoJSONFound; parse or validation
// failure yields InvalidJSON.
func Questions(text string) ([]quiz.Question, error) {
	candidate, err := LocateJSON(text)
	if err != nil {
		return nil, err
	}

	var questions []quiz.Question
	if strings.HasPrefix(candidate, "[") {
		if err := json.Unmarshal([]byte(candidate), &questions); err != nil {
			return nil, &Error{Kind: InvalidJSON, Err: err}
		}
	} else {
		var single quiz.Question
		if err := json.Unmarshal([]byte(candidate), &single); err != nil {
			return nil, &Error{Kind: InvalidJSON, Err: err}
		}
		questions = []quiz.Question{single}
	}

	if len(questions) == 0 {
		return nil, &Error{Kind: InvalidJSON, Err: fmt.Errorf("empty question list")}
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, &Error{Kind: InvalidJSON, Err: err}
		}
	}
	return questions, nil
}
