package policy

import (
	"github.com/blog-platform-api/internal/common"
)

// Ownable is implemented by resources that belong to one user
type Ownable interface {
	OwnerID() int64
}

// Policy decides whether a caller may act on a resource.
// resource is nil for actions without a target (create, list).
type Policy interface {
	Can(id Identity, resource any) bool
}

// OwnershipPolicy allows the owner of an Ownable resource
type OwnershipPolicy struct{}

// Can denies resources that do not implement Ownable
func (OwnershipPolicy) Can(id Identity, resource any) bool {
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.OwnerID() == id.ID
}

// AdminOnlyPolicy allows admins and nobody else
type AdminOnlyPolicy struct{}

func (AdminOnlyPolicy) Can(id Identity, _ any) bool {
	return id.IsAdmin()
}

// AdminBypassPolicy lets admins through and defers to Inner for everyone else
type AdminBypassPolicy struct {
	Inner Policy
}

func (p AdminBypassPolicy) Can(id Identity, resource any) bool {
	if id.IsAdmin() {
		return true
	}
	return p.Inner.Can(id, resource)
}

var (
	adminOnly    Policy = AdminOnlyPolicy{}
	ownerOrAdmin Policy = AdminBypassPolicy{Inner: OwnershipPolicy{}}
)

// Authorize returns ErrForbidden when p denies the action
func Authorize(p Policy, id Identity, resource any) error {
	if !p.Can(id, resource) {
		return common.ErrForbidden
	}
	return nil
}

// RequireAdmin gates admin-only operations
func RequireAdmin(id Identity) error {
	return Authorize(adminOnly, id, nil)
}

// RequireOwnerOrAdmin gates mutations of an owned resource
func RequireOwnerOrAdmin(id Identity, resource Ownable) error {
	return Authorize(ownerOrAdmin, id, resource)
}
