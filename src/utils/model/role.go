package model

// Role is the side of the deal a user is acting from.
// The ledger computes it per deal relative to the requesting user,
// it is never a stored attribute.
type Role string

const (
	RoleAdvertiser Role = "advertiser"
	RoleOwner      Role = "owner"
)

func (r Role) IsValid() bool {
	return r == RoleAdvertiser || r == RoleOwner
}
