package domain

// Category tags which customer group a package is sold to.
type Category string

const (
	CategoryNewUser      Category = "new-user"
	CategoryExistingUser Category = "existing-user"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryNewUser, CategoryExistingUser:
		return true
	}
	return false
}
