package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/api/metrics"
	"github.com/chemedu/periodic-table-api/internal/core/auth"
	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// Auth is the access guard. It extracts the bearer token, verifies it with
// the codec and injects the resolved identity into the request context.
// Every rejection collapses to a generic 401; the specific reason is logged
// and counted but never surfaced to the client.
func Auth(codec *auth.TokenCodec, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				reason := rejectionReason(err)
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				log.Debug().
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("username", claims.Subject)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

// rejectionReason maps a verification error onto a metric/log label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
