/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/harukitakahashi812/creator-platform/config"
	"github.com/harukitakahashi812/creator-platform/internal/apierror"
	"github.com/harukitakahashi812/creator-platform/model"
)

var verificationTracer = otel.Tracer("verification.pipeline")

const reviewSystemPrompt = `You are a strict content reviewer for a creator marketplace. ` +
	`You receive the metadata of one submitted project and decide whether it can be listed. ` +
	`Reject projects with misleading, offensive or empty metadata, and projects whose type ` +
	`is not one of: Elementor, Graphic Design, Video. ` +
	`Reply with a single JSON object and nothing else: ` +
	`{"approved": boolean, "reason": string, "type": string}`

// reviewDecision is the JSON contract the model replies with.
type reviewDecision struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
	Type     string `json:"type"`
}

// VerifyProject runs the metadata review for one project and persists the
// decision. The decision is durable before any publish attempt, so a failed
// publish leaves an approved project that can be retried, never an
// unreviewed one.
func (m *Marketplace) VerifyProject(ctx context.Context, projectID string) (*model.VerificationOutcome, error) {
	ctx, span := verificationTracer.Start(ctx, "Verifying project metadata")
	defer span.End()

	project, err := m.fetchProjectWithRetry(ctx, projectID)
	if err != nil {
		return nil, err
	}

	decision, err := m.reviewMetadata(ctx, project)
	if err != nil {
		return nil, err
	}

	status := model.StatusRejected
	reason := decision.Reason
	if decision.Approved {
		status = model.StatusApproved
		reason = ""
	}
	if err := m.updateProjectStatus(ctx, projectID, status, reason); err != nil {
		return nil, err
	}

	outcome := &model.VerificationOutcome{
		Approved:    decision.Approved,
		Reason:      decision.Reason,
		ProjectType: decision.Type,
	}
	if !decision.Approved {
		return outcome, nil
	}

	publishResult, err := m.PublishProject(ctx, projectID)
	if err != nil {
		logrus.Errorf("project %s approved but publish failed: %v", projectID, err)
		publishResult = &model.PublishResult{
			Success: false,
			Message: "approved, but publishing did not start",
			Error:   err.Error(),
		}
	}
	outcome.Publish = publishResult
	return outcome, nil
}

// reviewMetadata sends the project metadata to the chat completion API and
// parses the decision out of the reply.
func (m *Marketplace) reviewMetadata(ctx context.Context, project *model.Project) (*reviewDecision, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if conf.OpenAI.ApiKey == "" {
		return nil, apierror.NewAPIError(apierror.ErrPreconditionFailed, "metadata review is not configured, set an OpenAI API key", nil)
	}

	metadata := fmt.Sprintf("Title: %s\nDescription: %s\nType: %s\nPrice: %s USD",
		project.Title, project.Description, project.ProjectType, project.Price.String())

	resp, err := m.reviewer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       conf.OpenAI.Model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reviewSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: metadata},
		},
	})
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrServiceUnavailable, "metadata review unavailable", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apierror.NewAPIError(apierror.ErrServiceUnavailable, "metadata review returned no choices", nil)
	}

	raw := extractFirstJSONObject(resp.Choices[0].Message.Content)
	if raw == "" {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "metadata review reply contained no JSON object", resp.Choices[0].Message.Content)
	}

	var decision reviewDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "metadata review reply was not valid JSON", err)
	}
	return &decision, nil
}

// extractFirstJSONObject returns the first balanced {...} block in s. The
// model is told to reply with bare JSON but tends to wrap it in prose or
// code fences; everything around the object is ignored.
func extractFirstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
