package strategy_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/expertbridge/interviewer/pkg/interview"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/providers/mock"
	"github.com/expertbridge/interviewer/pkg/strategy"
)

func TestBuildSeniorityBands(t *testing.T) {
	cases := []struct {
		years int
		want  string
	}{
		{12, "SENIOR LEVEL"},
		{7, "MID LEVEL"},
		{2, "JUNIOR LEVEL"},
		{0, "JUNIOR LEVEL"},
	}
	for _, tc := range cases {
		brief := strategy.Build(interview.CandidateProfile{Name: "Sam", ExperienceYears: tc.years})
		if !strings.Contains(brief, tc.want) {
			t.Errorf("%d years: expected %q band", tc.years, tc.want)
		}
	}
}

func TestBuildSkillProbes(t *testing.T) {
	brief := strategy.Build(interview.CandidateProfile{
		Name:            "Sam",
		ExperienceYears: 6,
		TopSkills:       []string{"Python", "Kubernetes"},
		Industries:      []string{"FinTech"},
	})
	if !strings.Contains(brief, "long-running Python processes") {
		t.Fatalf("expected the Python probe in the brief")
	}
	if !strings.Contains(brief, "regulatory compliance") {
		t.Fatalf("expected the FinTech industry context")
	}
}

func TestBuildFallbackProbe(t *testing.T) {
	brief := strategy.Build(interview.CandidateProfile{
		Name:            "Sam",
		ExperienceYears: 6,
		TopSkills:       []string{"Esoteric Skill"},
	})
	if !strings.Contains(brief, "Esoteric Skill") {
		t.Fatalf("unmatched skills should still get a generic probe")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	p := interview.CandidateProfile{Name: "Sam", ExperienceYears: 11, TopSkills: []string{"AWS"}}
	if strategy.Build(p) != strategy.Build(p) {
		t.Fatalf("builder must be a pure transform")
	}
}

func TestInitialTopics(t *testing.T) {
	client := mock.NewCompletionClient().SetDefaultText("1. Topic one\n2. Topic two\n- Topic three\n\n")
	gen := llm.NewGenerator(client, []string{"m1"})

	topics := strategy.InitialTopics(context.Background(), gen, "A resume with Go and Postgres experience.")
	want := []string{"Topic one", "Topic two", "Topic three"}
	if !reflect.DeepEqual(topics, want) {
		t.Fatalf("got %v, want %v", topics, want)
	}
}

func TestInitialTopicsFallbacks(t *testing.T) {
	gen := llm.NewGenerator(mock.NewCompletionClient(), []string{"m1"})
	topics := strategy.InitialTopics(context.Background(), gen, "   ")
	if len(topics) != 1 || !strings.Contains(topics[0], "introduce yourself") {
		t.Fatalf("empty resume should fall back, got %v", topics)
	}

	failing := mock.NewCompletionClient().Script("m1", mock.Reply{Err: errors.New("down")})
	gen = llm.NewGenerator(failing, []string{"m1"})
	topics = strategy.InitialTopics(context.Background(), gen, "some resume")
	if len(topics) != 1 {
		t.Fatalf("generation failure should fall back, got %v", topics)
	}
}
