package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
	cfg  ProviderConfig
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Capabilities() Capabilities {
	return Capabilities{DefaultModel: s.cfg.Model}
}

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	return &CompletionResponse{Content: "ok"}, nil
}

func TestRegistry_NewUsesFactory(t *testing.T) {
	RegisterFactory("stub-test", func(cfg ProviderConfig) (Provider, error) {
		return &stubProvider{name: "stub-test", cfg: cfg}, nil
	})

	p, err := New("stub-test", ProviderConfig{Model: "m1"})
	require.NoError(t, err)

	assert.Equal(t, "stub-test", p.Name())
	assert.Equal(t, "m1", p.Capabilities().DefaultModel)
	assert.Contains(t, Factories(), "stub-test")
}

func TestRegistry_UnknownProvider(t *testing.T) {
	_, err := New("does-not-exist", ProviderConfig{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFactoryNotFound))
}

func TestRegistry_FactoryError(t *testing.T) {
	want := errors.New("no key")
	RegisterFactory("failing-test", func(cfg ProviderConfig) (Provider, error) {
		return nil, want
	})

	_, err := New("failing-test", ProviderConfig{})
	assert.ErrorIs(t, err, want)
}

func TestMessageRole_Valid(t *testing.T) {
	for _, r := range []MessageRole{MessageRoleSystem, MessageRoleUser, MessageRoleAssistant, MessageRoleTool} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, MessageRole("agent").Valid())
	assert.False(t, MessageRole("").Valid())
}

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, 0.7, *Float64(0.7))
	assert.Equal(t, 256, *Int(256))
}
