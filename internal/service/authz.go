package service

import "github.com/tableside/tableside/internal/model"

// CanModify is the single authorization predicate: the acting user must be
// the direct owner of the resource. Menu items are owned transitively via
// their parent restaurant's owner. There is no role hierarchy.
func CanModify(user *model.User, ownerID string) bool {
	return user != nil && ownerID != "" && user.ID == ownerID
}
