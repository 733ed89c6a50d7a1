package auth

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// ObjectID parses the principal's user id. ok is false for anonymous or
// malformed principals.
func (p Principal) ObjectID() (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// Is reports whether the principal is the given user.
func (p Principal) Is(userID primitive.ObjectID) bool {
	return p.UserID != "" && p.UserID == userID.Hex()
}
