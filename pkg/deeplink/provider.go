package deeplink

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// BuildFunc creates the destination of a matched route. Returning nil skips
// the link without trying further routes.
type BuildFunc func(params Parameters) domain.Destination

// Route is one url pattern of a Provider.
type Route struct {
	Pattern string
	Build   BuildFunc
}

// Provider is a ports.DeeplinkProvider driven by ordered route tables.
// Safe for concurrent use once routes are registered.
type Provider struct {
	AppSchemeLinks []Route
	UniversalLinks []Route

	logger *slog.Logger

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

var _ ports.DeeplinkProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a provider without routes.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{compiled: make(map[string]*regexp.Regexp)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	return p
}

// AppScheme adds a route for app scheme links. The pattern does not include the scheme.
func (p *Provider) AppScheme(pattern string, build BuildFunc) *Provider {
	p.AppSchemeLinks = append(p.AppSchemeLinks, Route{Pattern: pattern, Build: build})
	return p
}

// Universal adds a route for universal links. The pattern does not include scheme and host.
func (p *Provider) Universal(pattern string, build BuildFunc) *Provider {
	p.UniversalLinks = append(p.UniversalLinks, Route{Pattern: pattern, Build: build})
	return p
}

// DestinationForDeeplink matches u against the app scheme routes when u uses
// the configured scheme, otherwise against the universal link routes.
func (p *Provider) DestinationForDeeplink(u *url.URL, cfg domain.DeeplinkConfig) domain.Destination {
	switch {
	case cfg.AppScheme != "" && u.Scheme == cfg.AppScheme:
		return p.match(u, p.AppSchemeLinks, regexp.QuoteMeta(cfg.AppScheme+"://"))
	case cfg.UniversalLinkPrefix != "":
		return p.match(u, p.UniversalLinks, cfg.UniversalLinkPrefix)
	default:
		return nil
	}
}

func (p *Provider) match(u *url.URL, routes []Route, prefix string) domain.Destination {
	link := u.String()
	for _, route := range routes {
		re := p.compile(Normalize(route.Pattern, prefix))
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(link)
		if m == nil {
			continue
		}
		p.logger.Debug("deep link matched", "url", link, "pattern", re.String())
		return route.Build(captured(re, m))
	}
	p.logger.Debug("deep link not matched", "url", link)
	return nil
}

func (p *Provider) compile(pattern string) *regexp.Regexp {
	p.mu.Lock()
	defer p.mu.Unlock()
	if re, ok := p.compiled[pattern]; ok {
		return re
	}
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		p.logger.Error("invalid deep link pattern", "pattern", pattern, "error", err)
	}
	p.compiled[pattern] = re
	return re
}

// Normalize prefixes pattern unless it has a scheme, and lets it accept an
// optional trailing slash followed by any query or fragment. Patterns ending
// in ".*" are left open.
func Normalize(pattern, prefix string) string {
	if !strings.Contains(pattern, "://") {
		pattern = prefix + pattern
	}
	if strings.HasSuffix(pattern, ".*") {
		return pattern
	}
	if strings.HasSuffix(pattern, "/") {
		pattern += "?"
	}
	if !strings.HasSuffix(pattern, "/?") {
		pattern += "/?"
	}
	return pattern + `([\?&#].*)?`
}

func captured(re *regexp.Regexp, m []string) Parameters {
	params := make(Parameters)
	for i, name := range re.SubexpNames() {
		if name == "" || m[i] == "" {
			continue
		}
		v, err := url.PathUnescape(m[i])
		if err != nil {
			v = m[i]
		}
		params[name] = v
	}
	return params
}
