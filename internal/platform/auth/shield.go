package auth

import (
	"net/http"
	"time"
)

// Rule names an authorization rule evaluated against the request's Context.
type Rule string

const (
	RuleAllow            Rule = "allow"
	RuleIsAuthenticated  Rule = "isAuthenticated"
	RuleIsSuperAdmin     Rule = "isSuperAdmin"
	RuleIsAdmin          Rule = "isAdmin"
	RuleIsInstituteAdmin Rule = "isInstituteAdmin"
)

// Denial is a structured authorization refusal.
type Denial struct {
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}

func (d *Denial) Error() string {
	return d.Message
}

// HTTPStatus maps the denial code to a transport status.
func (d *Denial) HTTPStatus() int {
	if d.Code == CodeForbidden {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// fallbackDenial is the default-deny response for unmapped operations. The
// message is deliberately generic so unmapped operations never leak detail.
func fallbackDenial() *Denial {
	return &Denial{Code: CodeForbidden, Message: "Access denied"}
}

// Shield evaluates per-operation access rules over a request's Context.
// Operations without an explicit mapping fail closed.
type Shield struct {
	ops map[string]Rule
}

func NewShield(ops map[string]Rule) *Shield {
	return &Shield{ops: ops}
}

// DefaultOperations is the registry's operation → rule matrix.
func DefaultOperations() map[string]Rule {
	return map[string]Rule{
		// Public operations
		"login":                      RuleAllow,
		"registerInstitute":          RuleAllow,
		"registerInstituteWithAdmin": RuleAllow,

		// Authenticated queries
		"me":         RuleIsAuthenticated,
		"userStatus": RuleIsAuthenticated,

		// Institute queries
		"institutes":         RuleIsAdmin,
		"institute":          RuleIsInstituteAdmin,
		"pendingInstitutes":  RuleIsSuperAdmin,
		"approvedInstitutes": RuleIsAdmin,

		// User management
		"users":       RuleIsAdmin,
		"createUser":  RuleIsAdmin,
		"disableUser": RuleIsSuperAdmin,
		"enableUser":  RuleIsSuperAdmin,

		// Institute lifecycle and management
		"registerUserToInstitute": RuleIsInstituteAdmin,
		"approveInstitute":        RuleIsSuperAdmin,
		"rejectInstitute":         RuleIsSuperAdmin,
		"suspendInstitute":        RuleIsSuperAdmin,
		"disableInstitute":        RuleIsSuperAdmin,
		"enableInstitute":         RuleIsSuperAdmin,

		// Patient data
		"patients":              RuleIsAuthenticated,
		"patient":               RuleIsAuthenticated,
		"createPatient":         RuleIsAuthenticated,
		"updatePatient":         RuleIsAuthenticated,
		"deletePatient":         RuleIsAuthenticated,
		"patientFollowups":      RuleIsAuthenticated,
		"createFollowup":        RuleIsAuthenticated,
		"updateFollowup":        RuleIsAuthenticated,
		"deleteFollowup":        RuleIsAuthenticated,
		"dialysisRecords":       RuleIsAuthenticated,
		"createDialysisRecord":  RuleIsAuthenticated,
		"uploadConsentDocument": RuleIsAuthenticated,
		"consentDocuments":      RuleIsAuthenticated,
		"calculators":           RuleIsAuthenticated,

		// Reporting
		"dashboard": RuleIsAdmin,
	}
}

// Authorize evaluates the rule mapped to operation against the context.
// A nil return means the operation is allowed.
func (s *Shield) Authorize(c *Context, operation string) *Denial {
	rule, ok := s.ops[operation]
	if !ok {
		return fallbackDenial()
	}
	return c.evaluate(rule)
}

// evaluate runs a rule, memoizing the result for the lifetime of the request.
// Rules are pure given the context, so caching within one request is safe;
// the cache dies with the Context and never straddles requests.
func (c *Context) evaluate(rule Rule) *Denial {
	if c.ruleResults != nil {
		if d, ok := c.ruleResults[rule]; ok {
			return d
		}
	}

	d := c.evaluateUncached(rule)

	if c.ruleResults == nil {
		c.ruleResults = make(map[Rule]*Denial)
	}
	c.ruleResults[rule] = d
	return d
}

func (c *Context) evaluateUncached(rule Rule) *Denial {
	switch rule {
	case RuleAllow:
		return nil

	case RuleIsAuthenticated:
		if c.Err != nil {
			return &Denial{Code: c.Err.Code, Message: c.Err.Message, ExpiredAt: c.Err.ExpiredAt}
		}
		if c.User == nil {
			return &Denial{Code: CodeUnauthenticated, Message: "Authentication required"}
		}
		return nil

	case RuleIsSuperAdmin:
		if c.User == nil || c.User.Role != RoleSuperAdmin {
			return &Denial{Code: CodeForbidden, Message: "Super admin access required"}
		}
		return nil

	case RuleIsAdmin:
		if c.User == nil || (c.User.Role != RoleSuperAdmin && c.User.Role != RoleAdmin) {
			return &Denial{Code: CodeForbidden, Message: "Admin access required"}
		}
		return nil

	case RuleIsInstituteAdmin:
		if c.User == nil {
			return &Denial{Code: CodeForbidden, Message: "Institute admin access required"}
		}
		switch c.User.Role {
		case RoleSuperAdmin, RoleAdmin, RoleInstituteAdmin:
			return nil
		}
		return &Denial{Code: CodeForbidden, Message: "Institute admin access required"}

	default:
		return fallbackDenial()
	}
}
