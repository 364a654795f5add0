package domain

import "time"

// Status is a point-in-time view of a simulated owner and its binding.
type Status struct {
	Runner    string    `json:"runner"`
	Owner     string    `json:"owner"`
	State     string    `json:"state"`
	BindingID string    `json:"binding_id,omitempty"`
	Phase     string    `json:"phase"`
	Policy    string    `json:"policy"`
	Source    string    `json:"source"`
	Delivered int64     `json:"delivered"`
	Errors    int64     `json:"errors"`
	Completed bool      `json:"completed"`
	LastValue string    `json:"last_value,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the owner has been destroyed.
func (s Status) Terminal() bool {
	return s.State == "Destroyed"
}
