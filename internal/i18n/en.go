package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Calendar view
	"calendar.title":    "Daily Quiz",
	"calendar.stats":    "Completed: %d",
	"calendar.storage":  "Storage low: %.1f%% remaining",
	"calendar.future":   "That day has not arrived yet",
	"calendar.nav_hint": "←/→ month  enter open  t today  q quit",
	"calendar.weekdays": "Su Mo Tu We Th Fr Sa",

	// Task list view
	"tasks.title":  "Tasks",
	"tasks.today":  "Today",
	"tasks.redo":   "redo",
	"tasks.score":  "%d/%d",
	"tasks.empty":  "No records yet",
	"tasks.opened": "open",

	// Question detail view
	"detail.loading":    "Generating questions...",
	"detail.submit":     "Submit",
	"detail.check":      "Check",
	"detail.correct":    "Correct",
	"detail.wrong_hint": "Wrong. Hint: %s",
	"detail.locked":     "Locked. Answer: %s",
	"detail.missing":    "%d questions unanswered",
	"detail.score":      "Score: %d/%d",
	"detail.submitted":  "Submitted at %s",
	"detail.thinking":   "Reasoning",
	"detail.input_hint": "enter check  tab next  s submit  esc back",

	// Settings editor
	"settings.title":          "Settings",
	"settings.model":          "Model",
	"settings.url":            "Endpoint URL",
	"settings.key":            "API key",
	"settings.prompt":         "Prompt",
	"settings.sync_url":       "Sync URL",
	"settings.debug":          "Debug mode (y/n)",
	"settings.saved":          "Settings saved",
	"settings.password.ask":   "Password: ",
	"settings.password.set":   "Set a password (empty to skip): ",
	"settings.password.wrong": "Wrong password",

	// Sync
	"sync.done":   "Sync complete: pushed %d, merged %d",
	"sync.no_url": "Configure a sync URL in settings first",

	// Export / import
	"export.done": "Exported to %s",
	"import.done": "Imported %d entries",

	// Wipe
	"wipe.done": "All data removed",

	// Errors
	"error.timeout": "Network timeout, try again later",
	"error.network": "Request failed: %v",
	"error.extract": "Could not read questions from the model output",
	"error.storage": "Storage error: %v",
}
