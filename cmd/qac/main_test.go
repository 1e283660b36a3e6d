package main

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"qac/internal/extract"
	"qac/internal/kvstore"
	"qac/internal/quiz"
)

func TestParseModelText_JSONWins(t *testing.T) {
	text := `前言 [{"id":1,"type":"select","question":"q","options":["a","b"],"answer":"a"}] 后记`
	questions, err := parseModelText(text)
	if err != nil {
		t.Fatalf("parseModelText: %v", err)
	}
	if len(questions) != 1 || questions[0].Answer != "a" {
		t.Fatalf("questions=%+v", questions)
	}
}

func TestParseModelText_LineFallback(t *testing.T) {
	text := "题目1: 1+1等于几?\nA. 1\nB. 2\n答案: B\n"
	questions, err := parseModelText(text)
	if err != nil {
		t.Fatalf("parseModelText: %v", err)
	}
	if len(questions) != 1 || questions[0].Answer != "2" {
		t.Fatalf("questions=%+v", questions)
	}
}

func TestParseModelText_InvalidJSONStaysError(t *testing.T) {
	// 找到片段但不是题目列表, 不应落到行解析
	// A located span that is not a question list must not fall through to
	// line parsing.
	text := `{"foo": 1}`
	if _, err := parseModelText(text); !extract.IsKind(err, extract.InvalidJSON) {
		t.Fatalf("err=%v, want InvalidJSON", err)
	}
}

func TestParseModelText_NothingParsable(t *testing.T) {
	if _, err := parseModelText("纯闲聊文本"); !extract.IsKind(err, extract.NoJSONFound) {
		t.Fatalf("err=%v, want NoJSONFound", err)
	}
}

func TestParseBoolInput(t *testing.T) {
	cases := []struct {
		raw      string
		previous bool
		want     bool
	}{
		{"y", false, true},
		{"是", false, true},
		{"N", true, false},
		{"否", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		if got := parseBoolInput(tc.raw, tc.previous); got != tc.want {
			t.Errorf("parseBoolInput(%q, %v)=%v, want %v", tc.raw, tc.previous, got, tc.want)
		}
	}
}

func TestPromptField_EmptyKeepsCurrent(t *testing.T) {
	input := newBasicLineInput(strings.NewReader("\nnew-value\n"), io.Discard)

	got, err := promptField(input, "Model", "old")
	if err != nil {
		t.Fatalf("promptField: %v", err)
	}
	if got != "old" {
		t.Fatalf("got=%q, want current value kept", got)
	}

	got, err = promptField(input, "Model", "old")
	if err != nil {
		t.Fatalf("promptField: %v", err)
	}
	if got != "new-value" {
		t.Fatalf("got=%q", got)
	}
}

func TestPasswordGate(t *testing.T) {
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "qac.db"), kvstore.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	// 首次进入设置密码 / first entry sets the password
	input := newBasicLineInput(strings.NewReader("secret\n"), io.Discard)
	ok, err := passwordGate(store, input)
	if err != nil || !ok {
		t.Fatalf("first gate: ok=%v err=%v", ok, err)
	}
	var stored string
	if !store.Get(quiz.KeyPassword, &stored) || stored != "secret" {
		t.Fatalf("stored password=%q", stored)
	}

	// 密码错误被拒 / wrong password refused
	input = newBasicLineInput(strings.NewReader("nope\n"), io.Discard)
	ok, err = passwordGate(store, input)
	if err != nil {
		t.Fatalf("second gate: %v", err)
	}
	if ok {
		t.Fatal("wrong password should be refused")
	}

	// 正确密码放行 / correct password admitted
	input = newBasicLineInput(strings.NewReader("secret\n"), io.Discard)
	ok, err = passwordGate(store, input)
	if err != nil || !ok {
		t.Fatalf("third gate: ok=%v err=%v", ok, err)
	}
}
