package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/expertbridge/interviewer/pkg/llm"
)

const topicGenSystem = `You are an expert technical recruiter.
Analyze the candidate's CV and extract key technical skills.
Generate a list of 3-5 distinct technical topics or initial questions to validate these skills.
Return ONLY the list of questions, one per line.`

const fallbackTopic = "Could not generate specific questions. Please introduce yourself."

// InitialTopics derives 3-5 interview topics from raw resume text. Failures
// degrade to a single generic topic; topic generation never blocks a session
// from starting.
func InitialTopics(ctx context.Context, gen *llm.Generator, resumeText string) []string {
	if strings.TrimSpace(resumeText) == "" {
		return []string{fallbackTopic}
	}
	prompt := fmt.Sprintf("Analyze the following CV and generate a list of 3-5 technical interview topics/questions. Return them as a simple list, one per line.\nCV Text:\n%s", resumeText)
	completion, err := gen.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: topicGenSystem},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ModeDialogue)
	if err != nil {
		return []string{fallbackTopic}
	}

	var topics []string
	for _, line := range strings.Split(completion.Text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if line != "" {
			topics = append(topics, line)
		}
	}
	if len(topics) == 0 {
		return []string{fallbackTopic}
	}
	return topics
}
