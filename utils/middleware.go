package utils

import (
	"os"
	"strings"

	"github.com/kataras/iris/v12"
)

// AuthHeaderName carries the caller identity set by the fronting proxy.
const AuthHeaderName = "X-Authenticated-User-Email"

// AuthEmailMiddleware gates mutating routes on the presence of the identity
// header. This is a presence check only; verification happens upstream. The
// gate is off unless REQUIRE_AUTH_HEADER=1, so local development needs no proxy.
func AuthEmailMiddleware(ctx iris.Context) {
	if os.Getenv("REQUIRE_AUTH_HEADER") != "1" {
		ctx.Next()
		return
	}
	if strings.TrimSpace(ctx.GetHeader(AuthHeaderName)) == "" {
		JSONError(ctx, iris.StatusUnauthorized, "unauthorized", "authenticated user header required")
		return
	}
	ctx.Values().Set("userEmail", ctx.GetHeader(AuthHeaderName))
	ctx.Next()
}
