package models

import (
	"reflect"
	"testing"
)

func TestTechStackRoundTrip(t *testing.T) {
	stack := []string{"React", "Node.js", "PostgreSQL"}

	joined := JoinTechStack(stack)
	if joined != "React, Node.js, PostgreSQL" {
		t.Fatalf("joined = %q", joined)
	}
	if got := SplitTechStack(joined); !reflect.DeepEqual(got, stack) {
		t.Fatalf("round trip = %v, want %v", got, stack)
	}
}

func TestSplitTechStack_DropsEmptyEntries(t *testing.T) {
	if got := SplitTechStack("Go, , Redis,"); !reflect.DeepEqual(got, []string{"Go", "Redis"}) {
		t.Fatalf("got %v", got)
	}
	if got := SplitTechStack(""); len(got) != 0 {
		t.Fatalf("empty input yielded %v", got)
	}
}

func TestInterviewSession_QuestionsRoundTrip(t *testing.T) {
	var s InterviewSession
	in := []Question{
		{ID: "1", Question: "What is a goroutine?", Category: "technical", Difficulty: "medium"},
		{ID: "2", Question: "Describe a conflict you resolved.", Category: "behavioral", Difficulty: "easy", IsPinned: true},
	}
	if err := s.SetQuestions(in); err != nil {
		t.Fatalf("SetQuestions: %v", err)
	}

	out, err := s.Questions()
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestInterviewSession_QuestionsEmptyPayload(t *testing.T) {
	var s InterviewSession
	qs, err := s.Questions()
	if err != nil {
		t.Fatalf("Questions on empty payload: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("got %d questions from empty payload", len(qs))
	}
}

func TestInterviewSession_QuestionsCorruptPayload(t *testing.T) {
	s := InterviewSession{SessionID: "sess-1", QuestionsData: "{not json"}
	if _, err := s.Questions(); err == nil {
		t.Fatalf("expected error for corrupt payload")
	}
}
