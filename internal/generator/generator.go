// Package generator provides the deterministic built-in question bank used
// when no API is configured or extraction produced nothing.
package generator

import (
	"time"

	"qac/internal/quiz"
)

var (
	weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}
	weekdayPiny  = [7]string{"ri", "yi", "er", "san", "si", "wu", "liu"}
)

// ForDate 返回目标日期的内置题目；同一日期总是产生完全相同的题目。
// 不用于已提交或已简化的记录。
// ForDate returns the built-in questions for the target date. It is a pure
// function: the same date always reproduces exactly the same set. Never used
// for already-submitted or already-simplified records.
func ForDate(date time.Time) []quiz.Question {
	weekday := int(date.Weekday())
	dateStr := quiz.FormatDateKey(date)

	return []quiz.Question{
		{
			ID:       1,
			Type:     quiz.QuestionSelect,
			Question: "今天的正确日期是？",
			Options:  []string{dateStr, "昨天", "明天"},
			Answer:   dateStr,
			Hint:     "查看当前日期",
			Thinking: "这是一个关于日期的简单选择题，答案就是当前日期。",
		},
		{
			ID:       2,
			Type:     quiz.QuestionInput,
			Question: "今天是星期" + weekdayNames[weekday] + "，用拼音表示（如xingqiyi）",
			Answer:   "xingqi" + weekdayPiny[weekday],
			Hint:     "格式：xingqi...",
			Thinking: "拼音表示为：星期一(xingqiyi), 星期二(xingqier), 星期三(xingqisan), 星期四(xingqisi), 星期五(xingqiwu), 星期六(xingqiliu), 星期日(xingqiri)",
		},
		{
			ID:       3,
			Type:     quiz.QuestionSelect,
			Question: "下列哪个不是JavaScript的数据类型？",
			Options:  []string{"String", "Number", "Character", "Boolean"},
			Answer:   "Character",
			Hint:     "JavaScript有6种基本数据类型",
			Thinking: "JavaScript的基本数据类型包括：String(字符串), Number(数字), Boolean(布尔), Undefined(未定义), Null(空), Symbol(符号,ES6新增)。其中没有Character(字符)类型，这是其他语言如Java中的类型。",
		},
		{
			ID:       4,
			Type:     quiz.QuestionInput,
			Question: "HTML5的全称是什么？",
			Answer:   "HyperText Markup Language 5",
			Hint:     "超文本标记语言的第5版",
			Thinking: "HTML是HyperText Markup Language(超文本标记语言)的缩写，HTML5是它的第5个主要版本，所以全称为HyperText Markup Language 5。",
		},
		{
			ID:       5,
			Type:     quiz.QuestionInput,
			Question: "CSS中，使用什么选择器可以选择所有元素？",
			Answer:   "*",
			Hint:     "这是一个通配符",
			Thinking: "在CSS中，通配选择器(Universal Selector)使用星号(*)表示，可以选择文档中的所有元素。",
		},
	}
}
