package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages is the Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// 日历视图
	"calendar.title":    "每日答题",
	"calendar.stats":    "已完成: %d",
	"calendar.storage":  "存储空间不足: 剩余 %.1f%%",
	"calendar.future":   "这一天还没有到来",
	"calendar.nav_hint": "←/→ 切换月份  enter 打开  t 今天  q 退出",
	"calendar.weekdays": "日 一 二 三 四 五 六",

	// 任务列表
	"tasks.title":  "任务列表",
	"tasks.today":  "今天",
	"tasks.redo":   "重新答题",
	"tasks.score":  "%d/%d",
	"tasks.empty":  "暂无记录",
	"tasks.opened": "打开",

	// 答题详情
	"detail.loading":    "正在生成题目...",
	"detail.submit":     "提交",
	"detail.check":      "检查",
	"detail.correct":    "回答正确",
	"detail.wrong_hint": "回答错误。提示: %s",
	"detail.locked":     "已锁定。正确答案: %s",
	"detail.missing":    "还有 %d 题未作答",
	"detail.score":      "得分: %d/%d",
	"detail.submitted":  "提交于 %s",
	"detail.thinking":   "解析",
	"detail.input_hint": "enter 检查  tab 下一题  s 提交  esc 返回",

	// 设置编辑
	"settings.title":          "系统设置",
	"settings.model":          "模型",
	"settings.url":            "接口地址",
	"settings.key":            "API 密钥",
	"settings.prompt":         "提示词",
	"settings.sync_url":       "同步地址",
	"settings.debug":          "调试模式 (y/n)",
	"settings.saved":          "设置已保存",
	"settings.password.ask":   "请输入密码: ",
	"settings.password.set":   "设置密码（留空跳过）: ",
	"settings.password.wrong": "密码错误",

	// 同步
	"sync.done":   "同步完成: 推送 %d 项, 合并 %d 项",
	"sync.no_url": "请先在设置中配置数据同步 URL",

	// 导出导入
	"export.done": "已导出到 %s",
	"import.done": "已导入 %d 条数据",

	// 清空
	"wipe.done": "所有数据已删除",

	// 错误
	"error.timeout": "网络超时, 请稍后重试",
	"error.network": "请求失败: %v",
	"error.extract": "无法从模型输出中解析题目",
	"error.storage": "存储错误: %v",
}
