package agentdetails

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleetgate/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu          sync.Mutex
	agent       *api.Agent
	agentErr    error
	policy      *api.AgentPolicy
	policyErr   error
	agentCalls  int
	policyCalls int
}

func (f *fakeReader) GetAgent(ctx context.Context, agentID string) (*api.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agentCalls++
	return f.agent, f.agentErr
}

func (f *fakeReader) GetAgentPolicy(ctx context.Context, policyID string) (*api.AgentPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policyCalls++
	return f.policy, f.policyErr
}

func TestLoader_Load(t *testing.T) {
	reader := &fakeReader{agent: testAgent(), policy: &api.AgentPolicy{ID: "p1", Name: "Default policy"}}
	l := NewLoader(reader, "7.10.0", 0)

	p := l.Load(context.Background(), "a1", "")

	assert.Equal(t, BodyContent, p.Body.Kind)
	assert.Equal(t, "Default policy", p.Header.Policy)
	assert.Equal(t, 1, reader.agentCalls)
	assert.Equal(t, 1, reader.policyCalls)
	assert.Equal(t, DefaultPollInterval, l.pollInterval)
}

func TestLoader_Load_NoPolicyRequestWithoutPolicyID(t *testing.T) {
	agent := testAgent()
	agent.PolicyID = ""
	reader := &fakeReader{agent: agent}

	p := NewLoader(reader, "7.10.0", 0).Load(context.Background(), "a1", "")

	assert.Equal(t, "-", p.Header.Policy)
	assert.Equal(t, 0, reader.policyCalls)
}

func TestLoader_Load_PolicyErrorDegradesHeader(t *testing.T) {
	reader := &fakeReader{agent: testAgent(), policyErr: errors.New("forbidden")}

	p := NewLoader(reader, "7.10.0", 0).Load(context.Background(), "a1", "")

	assert.Equal(t, BodyContent, p.Body.Kind)
	assert.Equal(t, "p1", p.Header.Policy)
}

func TestLoader_Load_NotFound(t *testing.T) {
	reader := &fakeReader{agentErr: api.NewAgentNotFoundError("zz")}

	p := NewLoader(reader, "7.10.0", 0).Load(context.Background(), "zz", "")

	assert.Equal(t, BodyNotFound, p.Body.Kind)
	assert.Equal(t, 0, reader.policyCalls)
}

func TestLoader_Watch(t *testing.T) {
	reader := &fakeReader{agent: testAgent(), policy: &api.AgentPolicy{ID: "p1", Name: "Default policy"}}
	l := NewLoader(reader, "7.10.0", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var pages []Page
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Watch(ctx, "a1", "", func(p Page) {
			mu.Lock()
			pages = append(pages, p)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(pages) >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, BodyLoading, pages[0].Body.Kind)
	for _, p := range pages[1:] {
		assert.Equal(t, BodyContent, p.Body.Kind)
	}
}
