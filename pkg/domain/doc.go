/*
Package domain contains the core navigation model of Wayfinder.

It defines what can be navigated to and how, independent of any coordinator or
resolver implementation. The package is kept pure and free of I/O so the runtime,
the resolver and every adapter can share it.

# Key Entities

  - Destination: anything a navigator can be asked to go to.
  - ViewDestination: a destination that resolves to a renderable screen and declares
    its preferred action, references and requirements.
  - Reference: a stable identity token used as a back-navigation target.
  - NavigationAction: how a destination is shown (pushing or presenting), per
    horizontal size class.
  - DestinationSearch: the query used by back navigation.
  - CoordinatorSnapshot: a serialisable picture of a coordinator tree.
*/
package domain
