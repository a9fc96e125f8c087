package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ErrOriginNotAllowed is returned for a browser origin outside the
// allow-list while strict checking is on.  Echo's error handler turns it
// into a plain 500, not the records envelope.
var ErrOriginNotAllowed = errors.New("not allowed by CORS")

// OriginPolicy decides which browser origins may call the API.
//
// Requests without an Origin header always pass.  An origin passes when it
// is listed or the list contains "*".  Any other origin passes only when
// Strict is false, which is how every non-production environment runs.
type OriginPolicy struct {
	Allowed []string
	Strict  bool
}

// Check implements echo's AllowOriginFunc.
func (p OriginPolicy) Check(origin string) (bool, error) {
	if origin == "" {
		return true, nil
	}
	for _, o := range p.Allowed {
		if o == "*" || o == origin {
			return true, nil
		}
	}
	if !p.Strict {
		return true, nil
	}
	return false, ErrOriginNotAllowed
}

// CORS applies the policy through echo's CORS middleware with credentials
// enabled, so the matched origin is echoed back rather than "*".
func CORS(p OriginPolicy) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  p.Check,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowCredentials: true,
	})
}
