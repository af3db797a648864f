package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_dependencies.go -package=mocks consumer-assistant/internal/service IntentClassifier,ComplaintHandler
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_assistant.go -package=mocks -mock_names=Assistant=MockAssistant consumer-assistant/internal/service Assistant

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"consumer-assistant/internal/complaint"
	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/rag"
)

var tracer = otel.Tracer("consumer-assistant/service")

// Intent is the route a message takes.
type Intent string

const (
	IntentOrgInfo   Intent = "ORG_INFO"
	IntentLinks     Intent = "LINKS"
	IntentComplaint Intent = "COMPLAINT"
)

// ParseIntent maps a classifier label to an intent. Anything unrecognised is LINKS.
func ParseIntent(label string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(label))) {
	case IntentOrgInfo:
		return IntentOrgInfo
	case IntentComplaint:
		return IntentComplaint
	}
	return IntentLinks
}

// IntentClassifier labels a message with an intent. The label is untrusted.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, text string) (string, error)
}

// ComplaintHandler runs the complaint dialogue for a session.
type ComplaintHandler interface {
	Status(ctx context.Context, sessionID string) (complaint.Status, error)
	Handle(ctx context.Context, sessionID, text string) (complaint.Outcome, error)
}

// MessageRequest is one user message.
type MessageRequest struct {
	SessionID string
	Text      string
}

// MessageResponse is the assistant's reply. Reply is markdown.
type MessageResponse struct {
	Reply string
	Route Intent
}

// Assistant answers user messages.
type Assistant interface {
	// HandleMessage routes a message and produces a reply. Only invalid requests
	// return an error; downstream failures degrade to a textual reply.
	HandleMessage(ctx context.Context, req MessageRequest) (MessageResponse, error)
}

type assistant struct {
	classifier IntentClassifier
	engine     rag.Engine
	complaints ComplaintHandler
}

// NewAssistant creates an Assistant.
func NewAssistant(classifier IntentClassifier, engine rag.Engine, complaints ComplaintHandler) Assistant {
	return &assistant{
		classifier: classifier,
		engine:     engine,
		complaints: complaints,
	}
}

func (a *assistant) HandleMessage(ctx context.Context, req MessageRequest) (MessageResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return MessageResponse{}, &ValidationError{Field: "session_id", Message: "cannot be empty"}
	}
	if strings.TrimSpace(req.Text) == "" {
		return MessageResponse{}, &ValidationError{Field: "message", Message: "cannot be empty"}
	}

	ctx, span := tracer.Start(ctx, "service.HandleMessage")
	defer span.End()

	ctx = contextutil.WithAttrs(ctx, "session_id", req.SessionID)
	logger := contextutil.LoggerFromContext(ctx)

	route := a.route(ctx, req)
	span.SetAttributes(attribute.String("assistant.route", string(route)))
	logger.InfoContext(ctx, "message routed", "route", route, "message_length", len(req.Text))

	var reply string
	switch route {
	case IntentComplaint:
		reply = a.complaint(ctx, req)
	case IntentOrgInfo:
		reply = a.orgInfo(ctx, req.Text)
	default:
		reply = a.links(ctx, req.Text)
	}

	return MessageResponse{Reply: reply, Route: route}, nil
}

// route sends a session with an open form, or a complete form receiving an edit
// or cancel command, to the complaint machine without consulting the classifier.
func (a *assistant) route(ctx context.Context, req MessageRequest) Intent {
	logger := contextutil.LoggerFromContext(ctx)

	status, err := a.complaints.Status(ctx, req.SessionID)
	if err != nil {
		logger.WarnContext(ctx, "failed to read complaint status", "error", err)
	}
	if status.Exists {
		if !status.Complete {
			return IntentComplaint
		}
		if complaint.IsEditCommand(req.Text) || complaint.IsCancelCommand(req.Text) {
			return IntentComplaint
		}
	}

	label, err := a.classifier.ClassifyIntent(ctx, req.Text)
	if err != nil {
		logger.WarnContext(ctx, "intent classification failed, defaulting to links", "error", err)
		return IntentLinks
	}
	intent := ParseIntent(label)
	if string(intent) != strings.ToUpper(strings.TrimSpace(label)) {
		logger.InfoContext(ctx, "unrecognised intent label", "label", label)
	}
	return intent
}

func (a *assistant) complaint(ctx context.Context, req MessageRequest) string {
	out, err := a.complaints.Handle(ctx, req.SessionID, req.Text)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "complaint handling failed", "error", WrapError(err, "complaint"))
		return MsgUnavailable
	}
	return out.Text()
}

func (a *assistant) orgInfo(ctx context.Context, text string) string {
	answer, err := a.engine.AnswerOrgInfo(ctx, text)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "org info lookup failed", "error", err)
		return MsgNoInfo
	}
	return FormatOrgAnswer(answer)
}

func (a *assistant) links(ctx context.Context, text string) string {
	links, err := a.engine.RecommendLinks(ctx, text)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "link recommendation failed", "error", err)
		return MsgNoInfo
	}
	return FormatLinks(links)
}
