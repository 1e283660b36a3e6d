package extract

import (
	"strings"
	"testing"
	"time"

	"qac/internal/quiz"
)

func TestLocateJSON_RoundTrip(t *testing.T) {
	text := `noise {"a":[1,2,{"b":3}]} trailing`
	got, err := LocateJSON(text)
	if err != nil {
		t.Fatalf("LocateJSON: %v", err)
	}
	if got != `{"a":[1,2,{"b":3}]}` {
		t.Fatalf("LocateJSON=%q", got)
	}
}

func TestLocateJSON_ArrayFirst(t *testing.T) {
	text := `前缀 [{"id":1},{"id":2}] 后缀 {"x":1}`
	got, err := LocateJSON(text)
	if err != nil {
		t.Fatalf("LocateJSON: %v", err)
	}
	if got != `[{"id":1},{"id":2}]` {
		t.Fatalf("LocateJSON=%q", got)
	}
}

func TestLocateJSON_NoBrackets(t *testing.T) {
	_, err := LocateJSON("no structured data here")
	if !IsKind(err, NoJSONFound) {
		t.Fatalf("err=%v, want NoJSONFound", err)
	}
}

func TestLocateJSON_Unbalanced(t *testing.T) {
	// 计数器未归零：按 NoJSONFound 处理，而不是解析错误
	// Counter never returns to zero: NoJSONFound, not a parse error.
	_, err := LocateJSON("{bad json")
	if !IsKind(err, NoJSONFound) {
		t.Fatalf("err=%v, want NoJSONFound", err)
	}
}

func TestLocateJSON_SameKindCountingOnly(t *testing.T) {
	// 已知限制：只对同类括号计数，字符串内的异类括号不影响匹配。
	// Known limitation pinned here: only the selected bracket kind is counted,
	// so a stray `]` inside a string of an object span is ignored.
	got, err := LocateJSON(`{"a": "contains ] char"}`)
	if err != nil {
		t.Fatalf("LocateJSON: %v", err)
	}
	if got != `{"a": "contains ] char"}` {
		t.Fatalf("LocateJSON=%q", got)
	}
}

func TestQuestions_ParsesArray(t *testing.T) {
	text := `以下是题目：
[
  {"id":1,"type":"select","question":"一星期有几天？","options":["1","2","7","6"],"answer":"7","hint":"查看下日历","thinking":"简单"},
  {"id":2,"type":"input","question":"一年有几个月？","answer":"12","hint":"一年有365天"}
]
请作答。`
	questions, err := Questions(text)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len=%d, want 2", len(questions))
	}
	if questions[0].Type != quiz.QuestionSelect || questions[0].Answer != "7" {
		t.Fatalf("first question: %+v", questions[0])
	}
	if questions[1].Type != quiz.QuestionInput {
		t.Fatalf("second question: %+v", questions[1])
	}
}

func TestQuestions_ResolvesLetterAnswer(t *testing.T) {
	text := `[{"id":1,"type":"select","question":"q","options":["甲","乙","丙"],"answer":"C"}]`
	questions, err := Questions(text)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if questions[0].Answer != "丙" {
		t.Fatalf("answer=%q, want 丙", questions[0].Answer)
	}
}

func TestQuestions_InvalidJSON(t *testing.T) {
	_, err := Questions(`prefix {"id": } suffix`)
	if !IsKind(err, InvalidJSON) {
		t.Fatalf("err=%v, want InvalidJSON", err)
	}
}

func TestQuestions_ValidationFailureIsInvalidJSON(t *testing.T) {
	// 解析成功但选择题答案不在选项中 / Parses, but the select answer is not an option.
	_, err := Questions(`[{"id":1,"type":"select","question":"q","options":["a","b"],"answer":"z"}]`)
	if !IsKind(err, InvalidJSON) {
		t.Fatalf("err=%v, want InvalidJSON", err)
	}
}

func TestParseLines_SelectQuestion(t *testing.T) {
	text := strings.Join([]string{
		"题目1: 中国的首都是哪里？",
		"A. 上海",
		"B. 北京",
		"C. 广州",
		"D. 深圳",
		"答案：B",
		"提示：天安门所在的城市",
		"解析：北京是中华人民共和国的首都。",
		"自元代以来多为都城。",
		"题目2: 一年有几个月？",
		"答案：12",
	}, "\n")

	questions := ParseLines(text)
	if len(questions) != 2 {
		t.Fatalf("len=%d, want 2", len(questions))
	}

	q1 := questions[0]
	if q1.ID != 1 || q1.Type != quiz.QuestionSelect {
		t.Fatalf("q1: %+v", q1)
	}
	if len(q1.Options) != 4 || q1.Options[1] != "北京" {
		t.Fatalf("q1 options: %v", q1.Options)
	}
	// 裸字母答案按下标解析 / Bare letter resolved by index.
	if q1.Answer != "北京" {
		t.Fatalf("q1 answer=%q", q1.Answer)
	}
	if q1.Hint != "天安门所在的城市" {
		t.Fatalf("q1 hint=%q", q1.Hint)
	}
	// 多行思考过程在下一个标记行前结束 / Multi-line thinking stops at the next marker.
	if !strings.Contains(q1.Thinking, "首都") || !strings.Contains(q1.Thinking, "都城") {
		t.Fatalf("q1 thinking=%q", q1.Thinking)
	}

	q2 := questions[1]
	if q2.ID != 2 || q2.Type != quiz.QuestionInput || q2.Answer != "12" {
		t.Fatalf("q2: %+v", q2)
	}
}

func TestParseLines_MarkerVariants(t *testing.T) {
	cases := []string{
		"问题 3: 什么是水的化学式？",
		"3. 什么是水的化学式？",
		"Q3: 什么是水的化学式？",
	}
	for _, line := range cases {
		questions := ParseLines(line + "\n答案：H2O")
		if len(questions) != 1 {
			t.Fatalf("marker %q: len=%d, want 1", line, len(questions))
		}
		if questions[0].Question != "什么是水的化学式？" {
			t.Fatalf("marker %q: question=%q", line, questions[0].Question)
		}
		if questions[0].Answer != "H2O" {
			t.Fatalf("marker %q: answer=%q", line, questions[0].Answer)
		}
	}
}

func TestParseFreeText_FallsBackToBuiltin(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	questions := ParseFreeText("完全无法识别的回复", date)
	if len(questions) != 5 {
		t.Fatalf("len=%d, want built-in set of 5", len(questions))
	}
	if questions[0].Answer != "2025-03-10" {
		t.Fatalf("built-in first answer=%q", questions[0].Answer)
	}
}
