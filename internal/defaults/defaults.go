// Package defaults carries the built-in generation prompt and the per-model
// endpoint table.
package defaults

import "strings"

// DefaultModel 默认模型 / Default model
const DefaultModel = "gpt-3.5-turbo"

// Prompt 默认出题提示词（中文小学语文常识打卡）
// Prompt is the default question-generation prompt
const Prompt = `请为一个小学五年级的学生提供每日打卡的题目，内容是关于语文常识，古文，诗词和国学。
要求如下：
1. 生成2个选择题和1个填空题。
2. 选择题有4到6个备选答案，一个正确答案。
3. 填空题尽可能让答案是明确和唯一的，避免主观题导致不容易判断回答对错。
4. 每道题包括以下信息：
      a. 问题
      b. 答案
   c. 提示
      d. 解题思路
5. 提示可以帮助用户解答题目，但是要避免直接透露答案本身。
6. 解题思路可以帮助用户理解答案，提高解决类似题目的能力。
7. 所有题目的信息用JSON格式返回。例如：
[
    {
        "id": 1,
        "type": "select",
        "question": "一星期有几天？",
        "options": ["1", "2", "7", "6"],
        "answer": "7",
        "hint": "查看下日历",
        "thinking": "这是一个关于日期的简单选择题，可以通过查看日历了解。"
    },
    {
        "id": 2,
        "type": "input",
        "question": "一年有几个月？（请用阿拉伯数字回答）",
        "answer": "12",
        "hint": "一年有365天，一个月大概有30天。",
        "thinking": "这是一个关于日期的简单选择题，可以通过查看日历了解。"
    }
]
8. 确保返回正确的json并且可以被Python json.loads方法解析.

请生成题目:
`

// EndpointForModel 返回模型对应的默认端点；自定义模型返回空串
// EndpointForModel returns the default endpoint for a model; custom models
// return the empty string
func EndpointForModel(model string) string {
	switch strings.TrimSpace(model) {
	case "gpt-3.5-turbo", "gpt-4":
		return "https://api.openai.com/v1/chat/completions"
	case "deepseek-chat":
		return "https://api.deepseek.com/v1/chat/completions"
	case "qwen-max":
		return "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	default:
		return ""
	}
}

// KnownModels 设置界面的候选模型 / KnownModels lists the models offered by the settings form
func KnownModels() []string {
	return []string{"gpt-3.5-turbo", "gpt-4", "deepseek-chat", "qwen-max", "custom"}
}
