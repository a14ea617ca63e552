// Package deeplink maps urls to destinations.
//
// A Provider holds ordered routes for app scheme links ("myapp://...") and
// universal links ("https://example.com/..."). Routes are regular expressions
// whose named groups become Parameters:
//
//	p := deeplink.NewProvider()
//	p.AppScheme("profile/"+deeplink.Param("user"), func(params deeplink.Parameters) domain.Destination {
//		return Profile{User: params.Get("user")}
//	})
//	r.RegisterDeeplinkProvider(p)
//
// Patterns without a scheme are prefixed with the configured app scheme or
// universal link prefix, accept an optional trailing slash and ignore any
// query or fragment. Routes are tried in registration order, so register
// specific patterns before generic ones.
package deeplink
