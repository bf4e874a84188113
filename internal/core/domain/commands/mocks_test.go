package commands

import (
	"context"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockContext struct {
	mock.Mock
	invocation domain.Invocation
}

func newMockContext(userID string) *MockContext {
	return &MockContext{invocation: domain.Invocation{
		ID:      "i1",
		GuildID: "g1",
		Author:  &domain.Member{ID: userID, Username: "alice"},
	}}
}

func (m *MockContext) Send(ctx context.Context, content string, opts ...domain.ReplyOption) error {
	args := m.Called(ctx, content, domain.NewReply(content, opts...).Ephemeral)
	return args.Error(0)
}

func (m *MockContext) Defer(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContext) State() domain.ResponseState {
	return domain.Unresponded
}

func (m *MockContext) Invocation() domain.Invocation {
	return m.invocation
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateFromPrompt(ctx context.Context, prompts []domain.Prompt) (domain.ModelResponse, error) {
	args := m.Called(ctx, prompts)
	return args.Get(0).(domain.ModelResponse), args.Error(1)
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) AddUsage(userID string, tokens int) {
	m.Called(userID, tokens)
}

func (m *MockTracker) CheckLimit(ctx context.Context, c port.Context) bool {
	args := m.Called(ctx, c)
	return args.Bool(0)
}

type MockExtensions struct {
	mock.Mock
}

func (m *MockExtensions) Load(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockExtensions) Unload(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockExtensions) Reload(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockExtensions) Loaded() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockExtensions) Available() []string {
	return m.Called().Get(0).([]string)
}

type allowAll bool

func (a allowAll) IsAuthorized(_ context.Context, _ port.Context) bool {
	return bool(a)
}
