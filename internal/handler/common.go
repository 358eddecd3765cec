package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "strings" // strings provides trimming helpers

    "github.com/labstack/echo/v4" // echo defines request context types
)

// Role names as carried in the JWT "role" claim.
const (
    RolePlayer = "PLAYER"
    RoleOwner  = "OWNER"
    RoleAdmin  = "ADMIN"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id") // fetch user_id from context
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored in context by the JWT
// middleware, upper-cased, or empty when absent.
func getRole(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return strings.ToUpper(strings.TrimSpace(v))
    }
    return ""
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
