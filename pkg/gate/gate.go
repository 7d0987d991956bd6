package gate

import (
	"net/url"
	"strings"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

type Requirement int

const (
	Public Requirement = iota
	Authenticated
	Consented
)

type Action int

const (
	Allow Action = iota
	RedirectEligibility
	RedirectConsent
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectEligibility:
		return "redirect-eligibility"
	case RedirectConsent:
		return "redirect-consent"
	}
	return "unknown"
}

const (
	EligibilityPath = "/eligibility"
	ConsentPath     = "/consent"
	FromQueryParam  = "from"
)

// Decision is the outcome of one navigation. From is the interrupted
// request URI for redirects.
type Decision struct {
	Action   Action
	Location string
	From     string
}

var exactRoutes = map[string]Requirement{
	"/dashboard":     Consented,
	"/contactinfo":   Consented,
	"/resultupload":  Consented,
	"/appointment":   Consented,
	"/result":        Consented,
	"/consent":       Authenticated,
	"/consent/steps": Authenticated,
	"/consentehr":    Authenticated,
	"/settings":      Authenticated,
}

var prefixRoutes = map[string]Requirement{
	"/survey/": Consented,
}

// RequirementFor returns the access level a path needs.
func RequirementFor(path string) Requirement {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if r, ok := exactRoutes[path]; ok {
		return r
	}
	for prefix, r := range prefixRoutes {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return r
		}
	}
	return Public
}

func redirect(action Action, target string, from string) Decision {
	return Decision{
		Action:   action,
		Location: target + "?" + url.Values{FromQueryParam: {from}}.Encode(),
		From:     from,
	}
}

// Resolve evaluates the gate rules in order for the requested URI.
func Resolve(session types.SessionData, requestURI string) Decision {
	path := requestURI
	if u, err := url.ParseRequestURI(requestURI); err == nil {
		path = u.Path
	}

	requirement := RequirementFor(path)
	if requirement == Public {
		return Decision{Action: Allow}
	}
	if !session.IsAuthenticated() {
		return redirect(RedirectEligibility, EligibilityPath, requestURI)
	}
	if requirement == Consented && !session.Consented {
		return redirect(RedirectConsent, ConsentPath, requestURI)
	}
	return Decision{Action: Allow}
}
