/*
Package resolver provides the default ports.Resolver.

A Resolver holds the registries a coordinator tree depends on: destination
mappers and view factories keyed by the Go type of a destination, requirements
keyed by identifier, deep-link providers in registration order and an action
bus delivering DestinationActions to navigation items.

	r := resolver.New(resolver.WithLogger(logger))
	resolver.RegisterMapper(r, func(d ProfileLink) domain.Destination { return Profile{ID: d.ID} })
	resolver.RegisterView(r, func(d Profile, nav ports.Navigator, vc *domain.ViewContext) ports.View {
		return renderProfile(d)
	})
	r.RegisterRequirement(login)
*/
package resolver
