/*
Package ports defines the driven ports (interfaces) of the navigation core.

These interfaces decouple the coordinator state machine from the registries,
requirement implementations and storage backends that feed it.

# Key Interfaces

  - Navigator: the navigation surface handed to views, requirements and hosts.
  - Resolver: maps destinations to views and owns requirements and the action bus.
  - Requirement: an asynchronous precondition gating a destination.
  - DeeplinkProvider: turns a url into a destination.
  - StateStore: persists whether a requirement is satisfied and publishes changes.
*/
package ports
