package vault

// CanMutate decides whether the user behind currentUserID may change a
// resource owned by ownerID. Only the owner may, and an absent id on
// either side always denies.
func CanMutate(ownerID, currentUserID string) bool {
	return ownerID != "" && ownerID == currentUserID
}
