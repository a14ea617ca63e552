package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shop = `
name: shop
deeplinks:
  app_scheme: shop
requirements:
  - id: login
    resolve_on_demand: true
  - id: session
    satisfied: true
  - id: admin
screens:
  - name: home
  - name: search
  - name: settings
    references: [settings]
  - name: account
    requirements: [login]
    present: sheet
  - name: order
  - name: profile
    requirements: [session]
  - name: console
    requirements: [admin]
tabs:
  - id: home
    title: Home
    root: home
  - id: search
    root: search
routes:
  - pattern: order/(?P<id>[^/]+)
    screen: order
steps:
  - push: settings
    expect: [home, settings]
  - present: account
    expect: [account]
  - push: settings
    expect: [account, settings]
  - back_to: settings
    expect: [home, settings]
  - deeplink: shop://order/42
    expect: ["order(id=42)"]
  - back: true
    expect: [home, settings]
  - tab: search
    expect: [search]
  - tab: home
    pop_to_root: true
    expect: [home]
  - alert: Hello
  - push: profile
    expect: [home, profile]
  - revoke: session
    expect: [home, profile]
    expect_blocked: session
  - satisfy: session
    expect: [home, profile]
  - push: console
    expect_error: "requirement 'admin'"
`

func run(t *testing.T, doc string) ([]scenario.Result, error) {
	t.Helper()
	s, err := scenario.Parse([]byte(doc), false)
	require.NoError(t, err)
	r, err := scenario.NewRunner(context.Background(), s, scenario.WithSettle(30*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(r.Close)

	var results []scenario.Result
	err = r.Run(context.Background(), func(res scenario.Result) {
		results = append(results, res)
	})
	return results, err
}

func TestRun(t *testing.T) {
	results, err := run(t, shop)

	require.NoError(t, err)
	require.Len(t, results, 13)
	for _, res := range results {
		assert.NoError(t, res.Err, res.Step.String())
	}

	alert := results[8].Tree
	assert.Equal(t, "Hello", alert.Tabs[0].Coordinator.Alert)

	unblocked := results[11].Tree.Tabs[0].Coordinator
	require.Len(t, unblocked.Path, 1)
	assert.Empty(t, unblocked.Path[0].BlockedBy)
	assert.Equal(t, domain.TabID("home"), results[12].Tree.Selected)
}

func TestRun_GatedTabRoot(t *testing.T) {
	doc := `
requirements: [{id: onboarding}]
screens:
  - name: home
    requirements: [onboarding]
  - name: inbox
tabs:
  - id: home
    root: home
  - id: inbox
    root: inbox
steps:
  - alert: hi
    expect_blocked: onboarding
  - tab: inbox
    expect: [inbox]
  - satisfy: onboarding
  - tab: home
    expect: [home]
`
	results, err := run(t, doc)

	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, domain.RequirementIdentifier("onboarding"), results[0].Tree.Tabs[0].Coordinator.Root.BlockedBy)
	assert.Empty(t, results[3].Tree.Tabs[0].Coordinator.Root.BlockedBy)
}

func TestRun_ExpectationFailed(t *testing.T) {
	doc := `
screens: [{name: home}, {name: a}]
tabs: [{id: main, root: home}]
steps:
  - push: a
  - push: a
    expect: [home, a]
`
	results, err := run(t, doc)

	require.Error(t, err)
	assert.ErrorIs(t, err, scenario.ErrExpectationFailed)
	var stepErr *scenario.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.Len(t, results, 2)
}

func TestRun_UnhandledDeeplink(t *testing.T) {
	doc := `
deeplinks: {app_scheme: app}
screens: [{name: home}]
tabs: [{id: main, root: home}]
steps:
  - deeplink: app://nowhere
`
	_, err := run(t, doc)

	assert.ErrorIs(t, err, scenario.ErrUnhandledDeeplink)
}

func TestRun_ExpectErrorWithoutError(t *testing.T) {
	doc := `
screens: [{name: home}, {name: a}]
tabs: [{id: main, root: home}]
steps:
  - push: a
    expect_error: boom
`
	_, err := run(t, doc)

	assert.ErrorIs(t, err, scenario.ErrExpectationFailed)
}

func TestRun_DismissAndPresentAs(t *testing.T) {
	doc := `
screens: [{name: home}, {name: sheet}]
tabs: [{id: main, root: home}]
steps:
  - present: sheet
    as: full_screen
    modal: true
    expect: [sheet]
  - dismiss: true
    expect: [home]
  - dismiss: true
    expect_error: nothing is presented
`
	results, err := run(t, doc)

	require.NoError(t, err)
	p := results[0].Tree.Tabs[0].Coordinator.Presentation
	require.NotNil(t, p)
	assert.Equal(t, domain.PresentationFullScreen, p.Presentation)
	assert.True(t, p.IsModal)
}

func TestParse_Validation(t *testing.T) {
	doc := `
requirements: [{id: login}]
screens:
  - name: home
    requirements: [missing]
  - name: home
tabs: [{id: main, root: nowhere}]
routes: [{pattern: "(", screen: home}]
steps:
  - push: home
    back: true
  - present: ghost
  - satisfy: nope
`
	_, err := scenario.Parse([]byte(doc), false)

	require.Error(t, err)
	errs := scenario.ValidationErrors(err)
	assert.Len(t, errs, 7)
	assert.Contains(t, err.Error(), `field "tabs[0].root": unknown screen "nowhere"`)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	doc := `{"screens":[{"name":"home"}],"tabs":[{"id":"main","root":"home"}],"steps":[{"alert":"hi"}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := scenario.Load(path)

	require.NoError(t, err)
	assert.Len(t, s.Steps, 1)
	assert.Equal(t, "alert hi", s.Steps[0].String())

	_, err = scenario.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewRunner_SharedStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s, err := scenario.Parse([]byte(`
requirements: [{id: login, satisfied: true}]
screens: [{name: home}]
tabs: [{id: main, root: home}]
`), false)
	require.NoError(t, err)

	r, err := scenario.NewRunner(ctx, s, scenario.WithStateStore(store))
	require.NoError(t, err)
	defer r.Close()

	ok, err := store.IsSatisfied(ctx, "login")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, store, r.Store())
}

func TestExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := scenario.Load(path)
			require.NoError(t, err)
			r, err := scenario.NewRunner(context.Background(), s, scenario.WithSettle(30*time.Millisecond))
			require.NoError(t, err)
			defer r.Close()

			assert.NoError(t, r.Run(context.Background(), nil))
		})
	}
}
