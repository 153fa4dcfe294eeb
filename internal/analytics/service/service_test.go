package service

import (
	"testing"
	"time"
)

func TestRankQuestions_CountsAndOrders(t *testing.T) {
	questions := rankQuestions([]string{
		"What is the price?",
		"what is the price?  ",
		"Do you ship to Belgium?",
		"tell me more about the machine",
		"",
		"Do you ship to Belgium?",
		"What is the price?",
	})

	if len(questions) != 2 {
		t.Fatalf("expected 2 distinct questions, got %d", len(questions))
	}
	if questions[0].Question != "what is the price?" || questions[0].Count != 3 {
		t.Fatalf("unexpected top question %+v", questions[0])
	}
	if questions[1].Question != "do you ship to belgium?" || questions[1].Count != 2 {
		t.Fatalf("unexpected second question %+v", questions[1])
	}
}

func TestRankQuestions_NonQuestionsIgnored(t *testing.T) {
	if got := rankQuestions([]string{"hello", "thanks", "great"}); len(got) != 0 {
		t.Fatalf("expected no questions, got %v", got)
	}
}

func TestRankQuestions_CapsAtTop(t *testing.T) {
	messages := []string{
		"q one?", "q two?", "q three?", "q four?", "q five?", "q six?", "q seven?",
	}
	if got := rankQuestions(messages); len(got) != popularQuestionsTop {
		t.Fatalf("expected top %d, got %d", popularQuestionsTop, len(got))
	}
}

func TestRankQuestions_TiesBreakAlphabetically(t *testing.T) {
	questions := rankQuestions([]string{"b question?", "a question?"})
	if questions[0].Question != "a question?" {
		t.Fatalf("expected alphabetical tie break, got %+v", questions)
	}
}

func TestMakePeriod_Defaults(t *testing.T) {
	period := makePeriod(0)
	if period.Days != defaultPeriodDays {
		t.Fatalf("expected default %d days, got %d", defaultPeriodDays, period.Days)
	}
	if !period.StartDate.Before(period.EndDate) {
		t.Fatalf("expected start before end, got %+v", period)
	}
	if got := period.EndDate.Sub(period.StartDate); got != time.Duration(defaultPeriodDays)*24*time.Hour {
		t.Fatalf("expected %d day span, got %v", defaultPeriodDays, got)
	}
}

func TestMakePeriod_CapsAtMax(t *testing.T) {
	if period := makePeriod(10000); period.Days != maxPeriodDays {
		t.Fatalf("expected cap at %d, got %d", maxPeriodDays, period.Days)
	}
}

func TestRound1(t *testing.T) {
	if got := round1(66.666); got != 66.7 {
		t.Fatalf("round1(66.666) = %v", got)
	}
	if got := round1(0); got != 0 {
		t.Fatalf("round1(0) = %v", got)
	}
}
