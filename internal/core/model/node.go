package model

// Role tells whether a node is one of the entities of the explained prediction.
type Role string

const (
	RolePrediction Role = "prediction"
	RoleTraining   Role = "training"
)

type Node struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Role      Role   `json:"role"`
	Degree    int    `json:"degree"`
	Community string `json:"community,omitempty"`
}
