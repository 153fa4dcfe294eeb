package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// identityContextKey is the gin context key under which the authenticated
// identity is stored by AuthRequired.
const identityContextKey = "httpkit.identity"

// Identity describes the authenticated caller. Handlers use it for tenant
// scoping; every query is filtered by the owner's user ID.
type Identity interface {
	UserID() uuid.UUID
	Email() string
}

type identity struct {
	userID uuid.UUID
	email  string
}

func (i identity) UserID() uuid.UUID { return i.userID }
func (i identity) Email() string     { return i.email }

// NewIdentity constructs an Identity. Exported for tests and the dev bypass.
func NewIdentity(userID uuid.UUID, email string) Identity {
	return identity{userID: userID, email: email}
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(identityContextKey, id)
}

// GetIdentity returns the identity from the request context, if present.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// MustGetIdentity returns the identity or panics. Only call on routes behind
// AuthRequired; a missing identity there is a routing bug.
func MustGetIdentity(c *gin.Context) Identity {
	id, ok := GetIdentity(c)
	if !ok {
		panic("httpkit: identity missing on authenticated route")
	}
	return id
}
