package generator

import (
	"reflect"
	"testing"
	"time"

	"qac/internal/quiz"
)

func TestForDate_Deterministic(t *testing.T) {
	date := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) // 星期日 / a Sunday
	a := ForDate(date)
	b := ForDate(date)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("ForDate is not deterministic for the same date")
	}
	if len(a) != 5 {
		t.Fatalf("len=%d, want 5", len(a))
	}
}

func TestForDate_DateQuestion(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // Monday
	questions := ForDate(date)

	first := questions[0]
	if first.Type != quiz.QuestionSelect {
		t.Fatalf("first question type=%s", first.Type)
	}
	if first.Answer != "2025-03-10" {
		t.Fatalf("first answer=%q", first.Answer)
	}
	found := false
	for _, opt := range first.Options {
		if opt == first.Answer {
			found = true
		}
	}
	if !found {
		t.Fatalf("correct date missing from options: %v", first.Options)
	}

	second := questions[1]
	if second.Answer != "xingqiyi" {
		t.Fatalf("weekday answer=%q, want xingqiyi", second.Answer)
	}
}

func TestForDate_AllValid(t *testing.T) {
	for _, q := range ForDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		if err := q.Validate(); err != nil {
			t.Fatalf("question %d invalid: %v", q.ID, err)
		}
	}
}
