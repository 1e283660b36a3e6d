// Package record owns the per-day quiz record lifecycle: creation, question
// fill, submission and reset. It is the only writer of date-keyed entries
// outside the retention sweep and the sync merge.
package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qac/internal/generator"
	"qac/internal/kvstore"
	"qac/internal/quiz"
)

// ErrAlreadySubmitted 已提交记录不可再变更（除显式重做外）
// ErrAlreadySubmitted means the record is locked; only explicit reset mutates it
var ErrAlreadySubmitted = errors.New("record already submitted")

// ErrSimplified 已简化记录不再携带题目明细
// ErrSimplified means the record holds only its score summary
var ErrSimplified = errors.New("record already simplified")

// ValidationError 提交时仍有未回答的题目 / ValidationError reports unanswered questions at submit time
type ValidationError struct {
	Missing int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", e.Missing)
}

// FetchFunc 向模型端点请求题目文本 / FetchFunc requests question text from the model endpoint
type FetchFunc func(ctx context.Context) (string, error)

// ExtractFunc 将模型文本解析为题目列表 / ExtractFunc parses model text into questions
type ExtractFunc func(text string) ([]quiz.Question, error)

// Manager 每日记录管理器 / Manager manages DailyRecord entries
type Manager struct {
	store  *kvstore.Store
	logger *quiz.Logger
}

// NewManager 创建记录管理器 / NewManager creates a record manager
func NewManager(store *kvstore.Store, logger *quiz.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// EnsureToday 幂等地创建今日记录：已存在则不做任何修改
// EnsureToday idempotently creates today's record; a no-op when present
func (m *Manager) EnsureToday(now time.Time) (quiz.DailyRecord, error) {
	return m.LoadForDate(now)
}

// LoadForDate 读取指定日期的记录，缺失时创建全新未提交记录；不改动题目本身
// LoadForDate returns the record for a date, creating a fresh unsubmitted one
// when absent. It never mutates questions itself.
func (m *Manager) LoadForDate(date time.Time) (quiz.DailyRecord, error) {
	key := quiz.FormatDateKey(date)

	var record quiz.DailyRecord
	if m.store.Get(key, &record) {
		return record, nil
	}

	record = quiz.NewDailyRecord()
	if err := m.store.Set(key, record); err != nil {
		return quiz.DailyRecord{}, err
	}
	m.logger.Logf("created record: %s", key)
	return record, nil
}

// ApplyQuestions 把抓取到的题目写入记录。totalQuestions 仅在尚未设置、
// 且记录未提交未简化时才更新，防止重试悄悄改变计分分母。
// ApplyQuestions stores fetched questions on the record. totalQuestions is set
// from the length only when not already set and only on a record that is
// neither submitted nor simplified, so a retry can never silently change the
// scoring denominator after data recorded it.
func (m *Manager) ApplyQuestions(date time.Time, questions []quiz.Question) error {
	key := quiz.FormatDateKey(date)

	var record quiz.DailyRecord
	if !m.store.Get(key, &record) {
		record = quiz.NewDailyRecord()
	}
	if record.Submitted {
		return ErrAlreadySubmitted
	}
	if record.Simplified {
		return ErrSimplified
	}

	record.Questions = append([]quiz.Question(nil), questions...)
	if record.TotalQuestions == 0 && len(questions) > 0 {
		record.TotalQuestions = len(questions)
	}
	return m.store.Set(key, record)
}

// Submit 锁定当日答案。要求每道题都已作答，否则返回缺失数量且不做任何修改；
// 判分为去空白忽略大小写的精确匹配。
// Submit locks the day's answers. Every current question must have a recorded
// answer or a ValidationError with the missing count is returned and nothing
// is mutated. Grading is a trimmed, case-insensitive exact match.
func (m *Manager) Submit(date time.Time, answered map[int]string, now time.Time) (quiz.DailyRecord, error) {
	key := quiz.FormatDateKey(date)

	var record quiz.DailyRecord
	if !m.store.Get(key, &record) {
		return quiz.DailyRecord{}, fmt.Errorf("no record for %s", key)
	}
	if record.Submitted {
		return quiz.DailyRecord{}, ErrAlreadySubmitted
	}
	if record.Simplified {
		return quiz.DailyRecord{}, ErrSimplified
	}
	if len(record.Questions) == 0 {
		return quiz.DailyRecord{}, fmt.Errorf("no questions to submit for %s", key)
	}

	missing := 0
	for _, q := range record.Questions {
		if answered[q.ID] == "" {
			missing++
		}
	}
	if missing > 0 {
		return quiz.DailyRecord{}, &ValidationError{Missing: missing}
	}

	results := make(map[int]quiz.AnswerRecord, len(record.Questions))
	correct := 0
	for _, q := range record.Questions {
		user := answered[q.ID]
		ok := quiz.AnswersMatch(user, q.Answer)
		results[q.ID] = quiz.AnswerRecord{Answer: user, Correct: ok}
		if ok {
			correct++
		}
	}

	record.Submitted = true
	record.CorrectCount = correct
	record.TotalQuestions = len(record.Questions)
	record.Answers = results
	record.SubmitTime = now.UTC().Format(time.RFC3339)

	if err := m.store.Set(key, record); err != nil {
		return quiz.DailyRecord{}, err
	}
	m.logger.Logf("submitted %s: %d/%d", key, correct, record.TotalQuestions)
	return record, nil
}

// Reset 删除并重建为全新未提交记录（重做）
// Reset deletes the record and recreates a fresh unsubmitted one (redo)
func (m *Manager) Reset(date time.Time) error {
	key := quiz.FormatDateKey(date)
	m.store.Remove(key)
	if err := m.store.Set(key, quiz.NewDailyRecord()); err != nil {
		return err
	}
	m.logger.Logf("reset record: %s", key)
	return nil
}

// QuestionsForDate 获取某日题目：已有缓存直接返回；未配置 API 时写入内置题库；
// 否则请求模型并提取，提取失败原样上抛，绝不在线上路径静默回退默认题目。
// QuestionsForDate resolves the question set for a date: a cached set on the
// record wins; without a configured API the built-in bank is applied to the
// record so the day can be submitted; otherwise the model is called and its
// text extracted. Extraction failures propagate; the live-API path never
// silently substitutes defaults.
func (m *Manager) QuestionsForDate(
	ctx context.Context,
	date time.Time,
	apiConfigured bool,
	fetch FetchFunc,
	parse ExtractFunc,
) ([]quiz.Question, error) {
	record, err := m.LoadForDate(date)
	if err != nil {
		return nil, err
	}
	if record.Simplified {
		return nil, ErrSimplified
	}
	if len(record.Questions) > 0 {
		m.logger.Logf("using cached questions for %s", quiz.FormatDateKey(date))
		return record.Questions, nil
	}

	if !apiConfigured || fetch == nil {
		m.logger.Logf("using built-in questions for %s", quiz.FormatDateKey(date))
		questions := generator.ForDate(date)
		if err := m.ApplyQuestions(date, questions); err != nil {
			return nil, err
		}
		return questions, nil
	}

	text, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := parse(text)
	if err != nil {
		return nil, err
	}
	if err := m.ApplyQuestions(date, questions); err != nil {
		return nil, err
	}
	return questions, nil
}
