/*
Package wayfinder is a declarative navigation core for mobile-style user interfaces.

It keeps a tree of coordinators. Each coordinator owns a navigation stack
(a root item plus a pushed path), at most one presented child stack and an
optional alert. Navigation requests are plain Go values (destinations) that a
resolver maps to view destinations; view destinations may be gated behind
asynchronous requirements such as a login.

# Concept

The host (a UI toolkit, a terminal program, a test) renders the tree and reports
back when transitions finished through ItemDidAppear and ItemDidDisappear.
Wayfinder decides what the tree looks like: it pushes, presents, dismisses,
navigates back to references and blocks screens whose requirements became
unresolved.

# Usage

	type Home struct{ domain.ViewDefaults }
	type Settings struct{ domain.ViewDefaults }

	func main() {
		app, err := wayfinder.New([]wayfinder.Tab{
			{ID: "home", Title: "Home", Root: Home{}},
		}, wayfinder.WithAutoAcknowledge())
		if err != nil {
			log.Fatal(err)
		}
		defer app.Close()

		ctx := context.Background()
		if _, err := app.Navigate(ctx, Settings{}, domain.ByAction(domain.Presenting())); err != nil {
			log.Fatal(err)
		}
		fmt.Println(app.Snapshot().Tabs[0].Coordinator.Top().Root.Destination)
	}

# Packages

  - pkg/domain: destinations, actions, references, searches, events and snapshots.
  - pkg/ports: the Navigator, Resolver, Requirement and StateStore contracts.
  - pkg/resolver: the default registry of mappers, view factories and requirements.
  - pkg/requirement: requirements backed by a StateStore.
  - pkg/deeplink: regex route tables for app scheme and universal links.
  - pkg/adapters: memory and redis state stores, an HTTP API and an MCP server.
  - pkg/observability: logging hooks and Prometheus metrics.

The wayfinder command (cmd/wayfinder) runs YAML scenarios from examples/ against a
headless App: simulate, tree, serve, mcp and repl.
*/
package wayfinder
