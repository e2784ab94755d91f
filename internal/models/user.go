package models

import "time"

// User is the profile document stored for every registered account.
// The ID is the identity provider's user id and never changes.
type User struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Age              int       `bson:"age" json:"age"`
	Married          bool      `bson:"married" json:"married"`
	NumberOfChildren int       `bson:"number_of_children" json:"number_of_children"`
	StartBudget      float64   `bson:"start_budget" json:"start_budget"`
	MonthlySalary    float64   `bson:"monthly_salary" json:"monthly_salary"`
	Role             string    `bson:"role" json:"role"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultRole is assigned to profiles created through registration.
const DefaultRole = "user"
