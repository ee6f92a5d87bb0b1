package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-respin/internal/config"
	"github.com/alnah/go-respin/internal/rewrite"
	"github.com/alnah/go-respin/internal/variant"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock GeneratorFactory + VariantGenerator
// ---------------------------------------------------------------------------

type mockGeneratorFactory struct {
	NewGeneratorFunc func(apiKey, baseURL string, opts ...variant.Option) VariantGenerator

	mu                sync.Mutex
	newGeneratorCalls []generatorFactoryCall
	mockGenerator     *mockVariantGenerator
}

type generatorFactoryCall struct {
	APIKey  string
	BaseURL string
}

func (m *mockGeneratorFactory) NewGenerator(apiKey, baseURL string, opts ...variant.Option) VariantGenerator {
	m.mu.Lock()
	m.newGeneratorCalls = append(m.newGeneratorCalls, generatorFactoryCall{APIKey: apiKey, BaseURL: baseURL})
	m.mu.Unlock()

	if m.NewGeneratorFunc != nil {
		return m.NewGeneratorFunc(apiKey, baseURL, opts...)
	}
	if m.mockGenerator != nil {
		return m.mockGenerator
	}
	return &mockVariantGenerator{}
}

func (m *mockGeneratorFactory) NewGeneratorCalls() []generatorFactoryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]generatorFactoryCall, len(m.newGeneratorCalls))
	copy(result, m.newGeneratorCalls)
	return result
}

type mockVariantGenerator struct {
	GenerateFunc func(ctx context.Context, req variant.Request) ([]rewrite.Outcome, error)

	mu            sync.Mutex
	generateCalls []variant.Request
}

func (m *mockVariantGenerator) Generate(ctx context.Context, req variant.Request) ([]rewrite.Outcome, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	// Produce one plain outcome per requested variant by default
	outcomes := make([]rewrite.Outcome, req.Count)
	for i := range outcomes {
		outcomes[i] = rewrite.Outcome{
			Content:     fmt.Sprintf("rewritten variant %d", i+1),
			Title:       "Rewritten Title",
			Description: "Rewritten description.",
			Cost:        0.001,
		}
	}
	return outcomes, nil
}

func (m *mockVariantGenerator) GenerateCalls() []variant.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]variant.Request, len(m.generateCalls))
	copy(result, m.generateCalls)
	return result
}

// ---------------------------------------------------------------------------
// Compile-time interface verification
// ---------------------------------------------------------------------------

var (
	_ ConfigLoader     = (*mockConfigLoader)(nil)
	_ GeneratorFactory = (*mockGeneratorFactory)(nil)
	_ VariantGenerator = (*mockVariantGenerator)(nil)
)
