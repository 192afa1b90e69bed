package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/quizmentor/quizmentor/internal/interview"
)

// VertexGemini implements Interviewer and QuestionGenerator on Vertex AI.
// All calls use JSON response mode and parse the whole reply in one piece.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.GenerationConfig.ResponseMIMEType = "application/json"
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Opening(ctx context.Context, in OpeningInput) (*OpeningResult, error) {
	var sb strings.Builder
	sb.WriteString("You are conducting a mock technical interview for the course ")
	sb.WriteString(fmt.Sprintf("%q at %s level.\n", in.CourseName, in.Difficulty))
	writeContext(&sb, in.Topics, in.Persona, in.TargetRole)
	sb.WriteString("Open the interview with a short greeting and the first question.\n")
	sb.WriteString(`Reply as JSON: {"message": string, "current_topic": topic id}`)

	var out OpeningResult
	if err := v.generateJSON(ctx, sb.String(), &out); err != nil {
		return nil, err
	}
	if out.Message == "" {
		return nil, errors.New("empty opening message from model")
	}
	return &out, nil
}

func (v *VertexGemini) Turn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	var sb strings.Builder
	sb.WriteString("You are conducting a mock technical interview for the course ")
	sb.WriteString(fmt.Sprintf("%q at %s level.\n", in.CourseName, in.Difficulty))
	writeContext(&sb, in.Topics, in.Persona, in.TargetRole)
	writeTranscript(&sb, in.Transcript)

	if in.Skipped {
		sb.WriteString("The candidate skipped the last question. Move on to a different question without assessing the answer.\n")
		sb.WriteString(`Reply as JSON: {"message": string, "current_topic": topic id, "probing": bool}`)
	} else {
		sb.WriteString(fmt.Sprintf("Candidate answer: %q\n", in.UserMessage))
		sb.WriteString("Assess the answer as one of excellent|good|partial|brief, then either probe deeper on the same topic (probing=true) or ask the next question.\n")
		sb.WriteString(`Reply as JSON: {"message": string, "current_topic": topic id, "assessment": string, "probing": bool}`)
	}

	var out TurnResult
	if err := v.generateJSON(ctx, sb.String(), &out); err != nil {
		return nil, err
	}
	if out.Message == "" {
		return nil, errors.New("empty turn message from model")
	}
	if in.Skipped {
		out.Assessment = ""
	}
	return &out, nil
}

func (v *VertexGemini) Summary(ctx context.Context, in SummaryInput) (*interview.Summary, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The mock interview for the course %q has ended at %s level.\n", in.CourseName, in.Difficulty))
	writeContext(&sb, in.Topics, in.Persona, in.TargetRole)
	writeTranscript(&sb, in.Transcript)
	if len(in.History) > 0 {
		b, _ := json.Marshal(in.History)
		sb.WriteString("Difficulty adjustments during the interview: ")
		sb.Write(b)
		sb.WriteString("\n")
	}
	sb.WriteString("Evaluate the whole interview.\n")
	sb.WriteString(`Reply as JSON: {"score": 0-100, "overall_feedback": string, "topics_covered": [string], "strengths": [string], "areas_to_improve": [string], "recommended_next_steps": [string]`)
	if in.TargetRole != nil {
		sb.WriteString(`, "role_fit_score": 0-100, "role_fit_feedback": string`)
	}
	sb.WriteString("}")

	var out interview.Summary
	if err := v.generateJSON(ctx, sb.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *VertexGemini) GenerateQuestions(ctx context.Context, in QuestionRequest) ([]GeneratedQuestion, error) {
	count := in.Count
	if count <= 0 {
		count = 5
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write %d multiple-choice quiz questions for the course %q, topic %q, difficulty %d on a 1-4 scale.\n",
		count, in.CourseName, in.TopicName, in.Difficulty))
	sb.WriteString(`Reply as a JSON array of {"text": string, "choices": [4 strings], "answer": string, "explanation": string, "difficulty": int}`)

	var out []GeneratedQuestion
	if err := v.generateJSON(ctx, sb.String(), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("model returned no questions")
	}
	return out, nil
}

func (v *VertexGemini) generateJSON(ctx context.Context, prompt string, dst any) error {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return errors.New("empty model response")
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return fmt.Errorf("unparsable model response: %w", err)
	}
	return nil
}

func writeContext(sb *strings.Builder, topics []interview.TopicSnapshot, persona *interview.PersonaSnapshot, role *interview.RoleSnapshot) {
	if len(topics) > 0 {
		b, _ := json.Marshal(topics)
		sb.WriteString("Topics: ")
		sb.Write(b)
		sb.WriteString("\n")
	}
	if persona != nil {
		b, _ := json.Marshal(persona)
		sb.WriteString("Interviewer persona: ")
		sb.Write(b)
		sb.WriteString("\n")
	}
	if role != nil {
		b, _ := json.Marshal(role)
		sb.WriteString("Target role: ")
		sb.Write(b)
		sb.WriteString("\n")
	}
}

func writeTranscript(sb *strings.Builder, transcript []interview.Message) {
	if len(transcript) == 0 {
		return
	}
	sb.WriteString("Transcript so far:\n")
	for _, m := range transcript {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", m.Role, m.Content))
	}
}
