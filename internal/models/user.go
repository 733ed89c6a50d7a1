package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	IsAdmin   bool               `json:"isAdmin" bson:"isAdmin"`
	MobileNo  string             `json:"mobileNo" bson:"mobileNo"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"contains=@"`
	Password string `json:"password" validate:"min=8"`
	MobileNo string `json:"mobileNo" validate:"len=11"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
