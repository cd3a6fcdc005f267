package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/qa-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
	"github.com/custodia-labs/qa-agent/internal/core/services"
)

// fakeAgent records calls and returns canned results.
type fakeAgent struct {
	mu        sync.Mutex
	indexed   []string
	questions []string

	report    domain.IndexReport
	answer    string
	retrieved string
	count     int
	deleted   int
	err       error
}

func (f *fakeAgent) Index(_ context.Context, uri string) (domain.IndexReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, uri)
	if f.err != nil {
		return domain.IndexReport{}, f.err
	}
	r := f.report
	r.URI = uri
	return r, nil
}

func (f *fakeAgent) Query(_ context.Context, q string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, q)
	return f.answer, f.err
}

func (f *fakeAgent) Context(_ context.Context, q string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, q)
	return f.retrieved, f.err
}

func (f *fakeAgent) Count(context.Context) (int, error) {
	return f.count, f.err
}

func (f *fakeAgent) DeleteIndex(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted++
	return nil
}

func (f *fakeAgent) Indexed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.indexed...)
}

// fakeDocuments serves a fixed catalog.
type fakeDocuments struct {
	infos   []driving.DocumentInfo
	cleared bool
	err     error
}

func (f *fakeDocuments) List(context.Context) ([]driving.DocumentInfo, error) {
	return f.infos, f.err
}

func (f *fakeDocuments) Content(context.Context, string) (string, error) {
	return "", f.err
}

func (f *fakeDocuments) ClearCache() error {
	if f.err != nil {
		return f.err
	}
	f.cleared = true
	return nil
}

// testEnv is the state installed by setupTestServices.
type testEnv struct {
	agent    *fakeAgent
	docs     *fakeDocuments
	settings *services.SettingsService
	configs  []domain.Config
	closed   int
}

// setupTestServices installs an in-memory settings service with API keys set
// and replaces the app factories with fakes.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		agent: &fakeAgent{answer: "an answer", count: 3},
		docs:  &fakeDocuments{},
	}

	noEnv := func(string) (string, bool) { return "", false }
	store := memory.NewConfigStoreWith(map[string]any{
		"embedding.api_key": "sk-test",
		"llm.api_key":       "sk-test",
	})
	env.settings = services.NewSettingsService(store, noEnv)

	origApp, origDocs, origCheck, origSecret, origTerm := appFactory, documentsFactory, serviceChecker, readSecret, isTerminal
	origBackend, origVerbose := backendFlag, verbose

	SetSettingsService(env.settings)
	appFactory = func(_ context.Context, cfg domain.Config) (*app, error) {
		env.configs = append(env.configs, cfg)
		return &app{
			agent:     env.agent,
			documents: env.docs,
			close:     func() { env.closed++ },
		}, nil
	}
	documentsFactory = func(cfg domain.Config) driving.DocumentService {
		env.configs = append(env.configs, cfg)
		return env.docs
	}
	serviceChecker = func(context.Context, domain.Config) error { return nil }
	isTerminal = func() bool { return false }

	t.Cleanup(func() {
		SetSettingsService(nil)
		appFactory, documentsFactory, serviceChecker, readSecret, isTerminal = origApp, origDocs, origCheck, origSecret, origTerm
		backendFlag, verbose = origBackend, origVerbose
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

var errBoom = errors.New("boom")
