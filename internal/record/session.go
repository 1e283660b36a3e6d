package record

import (
	"qac/internal/quiz"
)

// AttemptState 单题作答状态 / AttemptState is the per-question attempt state
type AttemptState int

const (
	// Unanswered 尚未检查过 / never checked
	Unanswered AttemptState = iota
	// Attempting 答错但还有机会 / wrong, retries remain
	Attempting
	// Correct 已答对，输入锁定 / answered correctly, input locked
	Correct
	// Locked 连续两次答错后锁定 / locked after two wrong attempts
	Locked
)

// maxAttempts 连续答错次数上限 / consecutive wrong attempts before lockout
const maxAttempts = 2

// CheckResult 一次作答检查的结果 / CheckResult is the outcome of one answer check
type CheckResult struct {
	State AttemptState
	// Evaluated 本次输入是否被判分；已锁定或已答对时为 false
	// Evaluated reports whether the input was graded; false once Correct or Locked
	Evaluated bool
	// Reveal 是否展示标准答案与解析 / whether to reveal the canonical answer and rationale
	Reveal bool
	// Hint 答错未锁定时返回的提示 / hint surfaced on a wrong attempt before lockout
	Hint string
}

// SessionState 当前视图会话的作答状态：草稿答案和每题尝试计数。
// 只在内存中存在，不持久化，切换视图时整体重置。
// SessionState holds the active view session's answering state: draft answers
// and per-question attempt counters. In-memory only, never persisted, reset
// wholesale on navigation.
type SessionState struct {
	answers  map[int]string
	attempts map[int]int
	states   map[int]AttemptState
}

// NewSessionState 创建空会话状态 / NewSessionState creates empty session state
func NewSessionState() *SessionState {
	return &SessionState{
		answers:  make(map[int]string),
		attempts: make(map[int]int),
		states:   make(map[int]AttemptState),
	}
}

// RecordAnswer 记录草稿答案 / RecordAnswer stores a draft answer
func (s *SessionState) RecordAnswer(questionID int, value string) {
	s.answers[questionID] = value
}

// Answers 返回提交用的草稿答案表 / Answers returns the draft answer map for submission
func (s *SessionState) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for id, v := range s.answers {
		out[id] = v
	}
	return out
}

// State 返回某题当前状态 / State returns the current state of one question
func (s *SessionState) State(questionID int) AttemptState {
	return s.states[questionID]
}

// Check 对一道题执行一次作答检查。匹配则转入 Correct 并揭示答案；
// 不匹配时累计尝试次数，达到上限转入 Locked（同样揭示答案），
// 否则停留在 Attempting 并返回提示。已 Correct/Locked 的题不再判分。
// Check runs one grading attempt for a question. A match transitions to
// Correct and reveals the answer. A mismatch bumps the attempt counter:
// reaching the limit transitions to Locked (also revealing the answer),
// otherwise the question stays Attempting and the hint is surfaced. Questions
// already Correct or Locked are not evaluated again.
func (s *SessionState) Check(q quiz.Question, input string) CheckResult {
	current := s.states[q.ID]
	if current == Correct || current == Locked {
		return CheckResult{State: current, Reveal: true}
	}

	s.answers[q.ID] = input
	if quiz.AnswersMatch(input, q.Answer) {
		s.states[q.ID] = Correct
		return CheckResult{State: Correct, Evaluated: true, Reveal: true}
	}

	s.attempts[q.ID]++
	if s.attempts[q.ID] >= maxAttempts {
		s.states[q.ID] = Locked
		return CheckResult{State: Locked, Evaluated: true, Reveal: true}
	}

	s.states[q.ID] = Attempting
	return CheckResult{State: Attempting, Evaluated: true, Hint: q.Hint}
}
