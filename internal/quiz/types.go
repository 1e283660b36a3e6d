package quiz

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// 存储键约定 / Well-known store keys
const (
	KeySettings       = "system_settings"
	KeyPassword       = "settings_password"
	KeyCompletedCount = "completed_count"
	KeyDeviceID       = "device_id"
)

// DateKeyLayout 日期键格式 / Date key layout (ISO date)
const DateKeyLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FormatDateKey 将日期格式化为存储键
// FormatDateKey formats a date as its store key (YYYY-MM-DD)
func FormatDateKey(date time.Time) string {
	return date.Format(DateKeyLayout)
}

// ParseDateKey 解析日期键；非日期键返回 false
// ParseDateKey parses a store key as a date; non-date keys return false
func ParseDateKey(key string) (time.Time, bool) {
	if !dateKeyPattern.MatchString(key) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// QuestionType 题目类型 / Question type tag
type QuestionType string

const (
	// QuestionSelect 选择题 / multiple choice
	QuestionSelect QuestionType = "select"
	// QuestionInput 填空题 / free-form input
	QuestionInput QuestionType = "input"
)

// Question 单个题目；Options 仅选择题存在
// Question is one quiz question; Options is present for select questions only
type Question struct {
	ID       int          `json:"id"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
	Hint     string       `json:"hint,omitempty"`
	Thinking string       `json:"thinking,omitempty"`
}

// NewSelectQuestion 构造选择题；答案必须是选项之一
// NewSelectQuestion builds a select question; the answer must be one of the options
func NewSelectQuestion(id int, text string, options []string, answer, hint, thinking string) (Question, error) {
	if len(options) == 0 {
		return Question{}, fmt.Errorf("select question %d has no options", id)
	}
	found := false
	for _, opt := range options {
		if opt == answer {
			found = true
			break
		}
	}
	if !found {
		return Question{}, fmt.Errorf("select question %d: answer %q not in options", id, answer)
	}
	return Question{
		ID:       id,
		Type:     QuestionSelect,
		Question: text,
		Options:  append([]string(nil), options...),
		Answer:   answer,
		Hint:     hint,
		Thinking: thinking,
	}, nil
}

// NewInputQuestion 构造填空题
// NewInputQuestion builds an input question
func NewInputQuestion(id int, text, answer, hint, thinking string) Question {
	return Question{
		ID:       id,
		Type:     QuestionInput,
		Question: text,
		Answer:   answer,
		Hint:     hint,
		Thinking: thinking,
	}
}

// Validate 检查题目结构合法性；选择题答案先做字母归一化
// Validate checks structural validity. Select answers are resolved from a bare
// option letter to the option text before the membership check.
func (q *Question) Validate() error {
	switch q.Type {
	case QuestionSelect:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: select without options", q.ID)
		}
		if resolved, ok := ResolveOptionLetter(q.Answer, q.Options); ok {
			q.Answer = resolved
		}
		for _, opt := range q.Options {
			if opt == q.Answer {
				return nil
			}
		}
		return fmt.Errorf("question %d: answer %q not in options", q.ID, q.Answer)
	case QuestionInput:
		if len(q.Options) > 0 {
			return fmt.Errorf("question %d: input with options", q.ID)
		}
		return nil
	default:
		return fmt.Errorf("question %d: unknown type %q", q.ID, q.Type)
	}
}

// ResolveOptionLetter 将裸选项字母 (A-D) 解析为对应选项文本
// ResolveOptionLetter resolves a bare option letter (A-D) to the option text
func ResolveOptionLetter(answer string, options []string) (string, bool) {
	trimmed := strings.TrimSpace(answer)
	if len(trimmed) != 1 {
		return "", false
	}
	c := trimmed[0]
	if c < 'A' || c > 'D' {
		return "", false
	}
	idx := int(c - 'A')
	if idx >= len(options) {
		return "", false
	}
	return options[idx], true
}

// AnswerRecord 用户对单题的作答结果
// AnswerRecord is the recorded outcome for one question
type AnswerRecord struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// DailyRecord 每日任务记录，键为 ISO 日期
// DailyRecord is one calendar day's quiz state, keyed by ISO date.
// Once Simplified is true, Questions and Answers are absent and only the
// score summary survives. Once Submitted is true the record is immutable
// except by explicit reset.
type DailyRecord struct {
	Submitted      bool                 `json:"submitted"`
	CorrectCount   int                  `json:"correctCount"`
	TotalQuestions int                  `json:"totalQuestions"`
	Questions      []Question           `json:"questions,omitempty"`
	Answers        map[int]AnswerRecord `json:"answers,omitempty"`
	Simplified     bool                 `json:"simplified,omitempty"`
	SubmitTime     string               `json:"submitTime,omitempty"`
}

// NewDailyRecord 创建全新的未提交记录
// NewDailyRecord creates a fresh unsubmitted record
func NewDailyRecord() DailyRecord {
	return DailyRecord{
		Submitted:      false,
		CorrectCount:   0,
		TotalQuestions: 0,
	}
}

// Simplify 返回简化投影，只保留得分摘要
// Simplify returns the simplified projection: score summary only
func (r DailyRecord) Simplify() DailyRecord {
	return DailyRecord{
		Submitted:      true,
		CorrectCount:   r.CorrectCount,
		TotalQuestions: r.TotalQuestions,
		Simplified:     true,
	}
}

// AnswersMatch 判定用户答案是否正确：去除首尾空白后忽略大小写的精确匹配
// AnswersMatch reports whether a user answer matches the canonical answer:
// trimmed, case-insensitive exact string comparison
func AnswersMatch(user, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(user), strings.TrimSpace(canonical))
}

// Settings 系统设置记录，存储于 system_settings 键
// Settings is the settings record persisted under the system_settings key
type Settings struct {
	APIModel  string `json:"apiModel"`
	APIURL    string `json:"apiUrl"`
	APIKey    string `json:"apiKey"`
	APIPrompt string `json:"apiPrompt"`
	SyncURL   string `json:"syncUrl"`
	DebugMode bool   `json:"debugMode"`
}

// APIConfigured 是否已配置题目生成 API
// APIConfigured reports whether a question-generation API is configured
func (s Settings) APIConfigured() bool {
	return strings.TrimSpace(s.APIURL) != "" && strings.TrimSpace(s.APIKey) != ""
}
