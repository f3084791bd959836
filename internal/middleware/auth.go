package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/voxarena/arena-go/internal/model"
	"github.com/voxarena/arena-go/internal/repository"
)

// accountLocalKey is where the resolved account is stashed on the request.
const accountLocalKey = "account"

// NewAuth returns a middleware that resolves the caller's identity from
// the gateway-verified claim headers and upserts the account row. Requests
// without an identity are rejected with 401.
func NewAuth(accounts *repository.AccountRepo) fiber.Handler {
	return func(c fiber.Ctx) error {
		accountID := strings.TrimSpace(c.Get("X-Account-ID"))
		if accountID == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Sign in to use the arena")
		}
		if len(accountID) > MaxAccountIDLen {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid account id")
		}

		username := strings.TrimSpace(c.Get("X-Account-Username"))
		if username == "" {
			username = accountID
		}

		var verifiedAt *time.Time
		if raw := c.Get("X-Identity-Verified-At"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				verifiedAt = &t
			}
		}

		acct, err := accounts.Ensure(c.Context(), accountID, username, verifiedAt)
		if err != nil {
			Logger.Error().Err(err).Msg("auth: account upsert failed")
			return ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL", "Could not resolve account")
		}

		c.Locals(accountLocalKey, acct)
		return c.Next()
	}
}

// AccountFromCtx returns the account resolved by NewAuth, or nil on routes
// that did not pass through it.
func AccountFromCtx(c fiber.Ctx) *model.Account {
	acct, _ := c.Locals(accountLocalKey).(*model.Account)
	return acct
}
