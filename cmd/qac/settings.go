package main

import (
	"fmt"
	"os"
	"strings"

	"qac/internal/defaults"
	"qac/internal/i18n"
	"qac/internal/kvstore"
	"qac/internal/quiz"
)

// passwordGate 校验访问密码; 未设置密码时提示设置一个
// passwordGate checks the access password, offering to set one when absent
func passwordGate(store *kvstore.Store, input lineInput) (bool, error) {
	var stored string
	if store.Get(quiz.KeyPassword, &stored) && stored != "" {
		entered, err := input.ReadPassword(i18n.T("settings.password.ask"))
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(entered) != stored {
			fmt.Fprintln(os.Stderr, i18n.T("settings.password.wrong"))
			return false, nil
		}
		return true, nil
	}

	entered, err := input.ReadPassword(i18n.T("settings.password.set"))
	if err != nil {
		return false, err
	}
	entered = strings.TrimSpace(entered)
	if entered != "" {
		if err := store.Set(quiz.KeyPassword, entered); err != nil {
			return false, err
		}
	}
	return true, nil
}

// editSettings 逐项编辑设置, 回车保留当前值
// editSettings edits the settings field by field; enter keeps the current
// value
func editSettings(store *kvstore.Store, input lineInput) error {
	var settings quiz.Settings
	store.Get(quiz.KeySettings, &settings)

	fmt.Println(i18n.T("settings.title"))

	model, err := promptField(input, i18n.T("settings.model"), settings.APIModel)
	if err != nil {
		return err
	}
	settings.APIModel = model

	// 已知模型自动填充端点 / known models get their endpoint filled in
	urlDefault := settings.APIURL
	if auto := defaults.EndpointForModel(settings.APIModel); auto != "" && urlDefault == "" {
		urlDefault = auto
	}
	url, err := promptField(input, i18n.T("settings.url"), urlDefault)
	if err != nil {
		return err
	}
	settings.APIURL = url

	key, err := promptField(input, i18n.T("settings.key"), settings.APIKey)
	if err != nil {
		return err
	}
	settings.APIKey = key

	prompt, err := promptField(input, i18n.T("settings.prompt"), settings.APIPrompt)
	if err != nil {
		return err
	}
	settings.APIPrompt = prompt

	syncURL, err := promptField(input, i18n.T("settings.sync_url"), settings.SyncURL)
	if err != nil {
		return err
	}
	settings.SyncURL = syncURL

	debugRaw, err := promptField(input, i18n.T("settings.debug"), boolLabel(settings.DebugMode))
	if err != nil {
		return err
	}
	settings.DebugMode = parseBoolInput(debugRaw, settings.DebugMode)

	if err := store.Set(quiz.KeySettings, settings); err != nil {
		return err
	}
	fmt.Println(i18n.T("settings.saved"))
	return nil
}

// promptField 读取一个字段, 空输入沿用当前值
// promptField reads one field; empty input keeps the current value
func promptField(input lineInput, label, current string) (string, error) {
	display := current
	if runes := []rune(display); len(runes) > 40 {
		display = string(runes[:37]) + "..."
	}
	prompt := fmt.Sprintf("%s [%s]: ", label, display)
	line, err := input.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func boolLabel(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

// parseBoolInput 解析 y/n 输入, 无法识别时保留原值
// parseBoolInput parses a y/n answer, keeping the previous value when
// unrecognized
func parseBoolInput(raw string, previous bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1", "是":
		return true
	case "n", "no", "false", "0", "否":
		return false
	default:
		return previous
	}
}
