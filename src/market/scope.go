package market

import (
	"fmt"

	"github.com/adtgram/engine/src/utils/model"
)

// Scope identifies one viewing context: which user is looking at which
// role's deals in which container. Poll loop ownership is keyed by it.
type Scope struct {
	UserID int64
	Role   model.Role

	// Distinguishes containers showing the same (user, role)
	View string
}

func (s Scope) String() string {
	return fmt.Sprintf("%d/%s/%s", s.UserID, s.Role, s.View)
}

// FilterByRole keeps the deals the ledger annotated with the requested
// role view. Pure and total over the fetched set.
func FilterByRole(deals []model.Deal, role model.Role) (out []model.Deal) {
	out = make([]model.Deal, 0, len(deals))
	for _, d := range deals {
		if d.UserRole == role {
			out = append(out, d)
		}
	}
	return
}
