package complaint

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_oracles.go -package=mocks consumer-assistant/internal/complaint CategoryClassifier,FieldExtractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/session"
)

// FormKey is the session key holding the in-flight form.
const FormKey = "complaint_form"

var tracer = otel.Tracer("consumer-assistant/complaint")

var (
	editPattern   = regexp.MustCompile(`(?is)^\s*(?:edit|แก้ไข)\s+(.+?)\s*$`)
	cancelPattern = regexp.MustCompile(`(?i)^\s*(?:cancel|ยกเลิก)\s*$`)
)

// CategoryClassifier maps a free-text description to one of the given
// "category > subtype" labels. The returned label is untrusted.
type CategoryClassifier interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

// FieldExtractor pulls values for any of the given fields out of a message. It may
// return an empty map.
type FieldExtractor interface {
	Extract(ctx context.Context, text string, fields []Field) (map[string]string, error)
}

// Outcome is the machine's answer to one message.
type Outcome struct {
	// Reply is the prompt, summary or correction to show the user.
	Reply string
	// Guidance is the required-documents note emitted once a category is set.
	Guidance string
	State    State
	// Field is the field the reply asks for, if any.
	Field string
	// Canceled reports that the form was discarded.
	Canceled bool
}

// Text joins guidance and reply for display.
func (o Outcome) Text() string {
	if o.Guidance == "" {
		return o.Reply
	}
	return o.Guidance + "\n\n" + o.Reply
}

// Status describes a session's form without changing it.
type Status struct {
	Exists   bool
	Complete bool
}

// Machine drives complaint intake. Forms live in the session store; every
// load-modify-save cycle holds the session lock.
type Machine struct {
	guide      *Guide
	classifier CategoryClassifier
	extractor  FieldExtractor
	store      session.Store
	locker     *session.Locker
}

// NewMachine creates a machine. extractor is optional; without it each message
// answers the next pending field.
func NewMachine(guide *Guide, classifier CategoryClassifier, extractor FieldExtractor, store session.Store, locker *session.Locker) *Machine {
	if locker == nil {
		locker = session.NewLocker()
	}
	return &Machine{
		guide:      guide,
		classifier: classifier,
		extractor:  extractor,
		store:      store,
		locker:     locker,
	}
}

// IsEditCommand reports whether text is an edit command.
func IsEditCommand(text string) bool {
	return editPattern.MatchString(text)
}

// IsCancelCommand reports whether text is a cancel command.
func IsCancelCommand(text string) bool {
	return cancelPattern.MatchString(text)
}

// Status reports whether the session has a form and whether it is complete.
func (m *Machine) Status(ctx context.Context, sessionID string) (Status, error) {
	form, err := m.load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Exists: true, Complete: form.State() == StateComplete}, nil
}

// Handle processes one message for a session. A session has at most one form;
// an existing form is resumed rather than replaced.
func (m *Machine) Handle(ctx context.Context, sessionID, text string) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "complaint.Handle")
	defer span.End()

	unlock := m.locker.Lock(sessionID)
	defer unlock()

	logger := contextutil.LoggerFromContext(ctx)

	form, err := m.load(ctx, sessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		form = NewForm(m.guide.Fields)
	case err != nil:
		return Outcome{}, err
	}

	if IsCancelCommand(text) {
		if err := m.store.Clear(ctx, sessionID, FormKey); err != nil {
			return Outcome{}, fmt.Errorf("failed to clear complaint form: %w", err)
		}
		logger.InfoContext(ctx, "complaint canceled")
		return Outcome{Reply: msgCanceled, Canceled: true}, nil
	}

	before := form.State()
	out := m.Step(ctx, form, text)

	if err := m.save(ctx, sessionID, form); err != nil {
		return Outcome{}, err
	}

	span.SetAttributes(
		attribute.String("complaint.state_before", string(before)),
		attribute.String("complaint.state_after", string(out.State)),
	)
	logger.InfoContext(ctx, "complaint step",
		"state_before", before,
		"state_after", out.State,
		"field", out.Field,
	)
	return out, nil
}

// Step applies one message to a form. It never fails: oracle problems surface as
// retry prompts and invalid edits as correction messages.
func (m *Machine) Step(ctx context.Context, form *Form, text string) Outcome {
	form.align(m.guide.Fields)

	if form.State() == StateCategoryPending {
		return m.classify(ctx, form, text)
	}

	if match := editPattern.FindStringSubmatch(text); match != nil {
		return m.edit(ctx, form, match[1])
	}

	if form.State() == StateComplete {
		return m.summary(form)
	}

	m.fill(ctx, form, text)
	return m.next(form)
}

func (m *Machine) classify(ctx context.Context, form *Form, text string) Outcome {
	logger := contextutil.LoggerFromContext(ctx)
	labels := m.guide.Pairs()

	label, err := m.classifier.Classify(ctx, text, labels)
	if err != nil {
		logger.WarnContext(ctx, "category classification failed", "error", err)
		return Outcome{Reply: categoryRetryMessage(labels), State: StateCategoryPending}
	}
	pair, err := m.guide.ParsePair(label)
	if err != nil {
		logger.WarnContext(ctx, "category classification rejected", "label", label, "error", err)
		return Outcome{Reply: categoryRetryMessage(labels), State: StateCategoryPending}
	}

	form.Category, form.Subtype = pair.Category, pair.Subtype
	sub, _ := m.guide.Lookup(pair)

	out := m.next(form)
	out.Guidance = guidanceMessage(pair, sub)
	return out
}

func (m *Machine) edit(ctx context.Context, form *Form, name string) Outcome {
	field, err := m.guide.ResolveField(name)
	if err != nil {
		var fe *FieldError
		errors.As(err, &fe)
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "edit rejected", "error", err)
		out := m.next(form)
		out.Reply = invalidFieldMessage(fe.Name, m.guide.Fields)
		return out
	}
	form.Clear(field.Name)
	form.Focus = field.Name
	if field.List {
		form.Attachments = nil
	}
	return Outcome{Reply: field.Prompt, State: form.State(), Field: field.Name}
}

// fill assigns values from a message. Multi-field extraction is used when an
// extractor is configured; if it fails the whole message answers the next
// pending field.
func (m *Machine) fill(ctx context.Context, form *Form, text string) {
	pendingNames := form.Pending()
	if len(pendingNames) == 0 {
		return
	}

	if m.extractor != nil {
		pending := make([]Field, 0, len(pendingNames))
		for _, name := range pendingNames {
			if f, ok := m.guide.Field(name); ok {
				pending = append(pending, f)
			}
		}
		values, err := m.extractor.Extract(ctx, text, pending)
		if err == nil {
			for _, f := range pending {
				if v, ok := values[f.Name]; ok && strings.TrimSpace(v) != "" {
					m.assign(form, f, v)
				}
			}
			return
		}
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "field extraction failed, using single-field answer", "error", err)
	}

	name, _ := form.NextPending()
	if f, ok := m.guide.Field(name); ok {
		m.assign(form, f, text)
	}
}

func (m *Machine) assign(form *Form, f Field, value string) {
	value = strings.TrimSpace(value)
	form.Set(f.Name, value)
	if f.List {
		form.Attachments = parseList(value)
	}
}

func (m *Machine) next(form *Form) Outcome {
	name, ok := form.NextPending()
	if !ok {
		return m.summary(form)
	}
	field, _ := m.guide.Field(name)
	return Outcome{Reply: field.Prompt, State: form.State(), Field: field.Name}
}

func (m *Machine) summary(form *Form) Outcome {
	var b strings.Builder
	b.WriteString(msgSummaryTitle)
	fmt.Fprintf(&b, "\n\n- %s: %s", labelCategory, form.Pair().String())
	for _, f := range m.guide.Fields {
		v, ok := form.Get(f.Name)
		if !ok {
			continue
		}
		if f.List {
			v = labelNone
			if len(form.Attachments) > 0 {
				v = strings.Join(form.Attachments, ", ")
			}
		}
		fmt.Fprintf(&b, "\n- %s: %s", fieldLabel(f), v)
	}
	b.WriteString("\n\n")
	b.WriteString(msgEditHint)
	return Outcome{Reply: b.String(), State: form.State()}
}

func fieldLabel(f Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (m *Machine) load(ctx context.Context, sessionID string) (*Form, error) {
	data, err := m.store.Get(ctx, sessionID, FormKey)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load complaint form: %w", err)
	}
	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "discarding unreadable complaint form", "error", err)
		return nil, session.ErrNotFound
	}
	return &form, nil
}

func (m *Machine) save(ctx context.Context, sessionID string, form *Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to encode complaint form: %w", err)
	}
	if err := m.store.Set(ctx, sessionID, FormKey, data); err != nil {
		return fmt.Errorf("failed to save complaint form: %w", err)
	}
	return nil
}
