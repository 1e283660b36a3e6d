package extract

import (
	"regexp"
	"strings"
	"time"

	"qac/internal/generator"
	"qac/internal/quiz"
)

// lineKind 行标记类别 / lineKind classifies one input line
type lineKind int

const (
	linePlain lineKind = iota
	lineQuestion
	lineOption
	lineAnswer
	lineHint
	lineThinking
)

// lineToken 分类后的行 / lineToken is one classified line
type lineToken struct {
	kind lineKind
	// body 去除标记前缀后的内容 / body is the content with the marker prefix stripped
	body string
}

var (
	questionMarker = regexp.MustCompile(`^(?:题目\s*\d+|问题\s*\d+|\d+[.、]|[Qq]\d+)`)
	questionPrefix = regexp.MustCompile(`^(?:题目\s*\d+[.:：]?\s*|问题\s*\d+[.:：]?\s*|\d+[.、]\s*|[Qq]\d+[.:：]?\s*)`)
	optionPrefix   = regexp.MustCompile(`^[A-D][.。)）]\s*`)
	answerPrefix   = regexp.MustCompile(`^(?:正确)?答案[:：]\s*`)
	hintPrefix     = regexp.MustCompile(`^提示[:：]\s*`)
	thinkingPrefix = regexp.MustCompile(`^(?:思考过程|解析)[:：]\s*`)
)

// classifyLine 将一行归类为标记或普通文本
// classifyLine classifies one trimmed line into a marker token or plain text
func classifyLine(line string) lineToken {
	switch {
	case questionMarker.MatchString(line):
		return lineToken{kind: lineQuestion, body: questionPrefix.ReplaceAllString(line, "")}
	case optionPrefix.MatchString(line):
		return lineToken{kind: lineOption, body: optionPrefix.ReplaceAllString(line, "")}
	case answerPrefix.MatchString(line):
		return lineToken{kind: lineAnswer, body: answerPrefix.ReplaceAllString(line, "")}
	case hintPrefix.MatchString(line):
		return lineToken{kind: lineHint, body: hintPrefix.ReplaceAllString(line, "")}
	case thinkingPrefix.MatchString(line):
		return lineToken{kind: lineThinking, body: thinkingPrefix.ReplaceAllString(line, "")}
	default:
		return lineToken{kind: linePlain, body: line}
	}
}

// ParseLines 行解析回退路径：识别半结构化文本中的题目。
// 题目标记开启新题（id 自增），选项标记把题目转为选择题，答案标记里的
// 裸选项字母按下标解析为选项文本，思考标记开始多行捕获直到下一个标记行。
// ParseLines is the fallback line parser for semi-structured free text.
// A question marker starts a new question with an auto-incrementing id;
// option markers turn it into a select question; a bare option letter in an
// answer line is resolved to the option text by index; a thinking marker
// starts a multi-line capture that runs until the next marker line.
func ParseLines(text string) []quiz.Question {
	var questions []quiz.Question
	var current *quiz.Question
	capturingThinking := false

	flush := func() {
		if current != nil {
			questions = append(questions, *current)
			current = nil
		}
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		token := classifyLine(line)

		if capturingThinking && token.kind == linePlain {
			current.Thinking += "\n" + rawLine
			continue
		}
		capturingThinking = false

		switch token.kind {
		case lineQuestion:
			flush()
			q := quiz.Question{
				ID:       len(questions) + 1,
				Type:     quiz.QuestionInput,
				Question: token.body,
			}
			current = &q
		case lineOption:
			if current == nil {
				continue
			}
			current.Type = quiz.QuestionSelect
			current.Options = append(current.Options, token.body)
		case lineAnswer:
			if current == nil {
				continue
			}
			current.Answer = token.body
			if current.Type == quiz.QuestionSelect {
				if resolved, ok := quiz.ResolveOptionLetter(current.Answer, current.Options); ok {
					current.Answer = resolved
				}
			}
		case lineHint:
			if current == nil {
				continue
			}
			current.Hint = token.body
		case lineThinking:
			if current == nil {
				continue
			}
			current.Thinking = token.body
			capturingThinking = true
		}
	}
	flush()

	return questions
}

// ParseFreeText 非 JSON 自由文本路径：行解析为空时回退到当日内置题库。
// ParseFreeText is the non-JSON free-text path: when line parsing yields zero
// questions it falls back to the built-in question set for the given date
// instead of failing the caller.
func ParseFreeText(text string, date time.Time) []quiz.Question {
	questions := ParseLines(text)
	if len(questions) == 0 {
		return generator.ForDate(date)
	}
	return questions
}
