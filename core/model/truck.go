package model

import "fmt"

// Truck describes one vehicle of the active roster. Capacity is a roster
// property: the same truck carries the same capacity on every weekday.
type Truck struct {
	ID       string
	Name     string
	Capacity float64 // maximum load in kg
}

// Tooltip returns the display hint shown on the truck header.
func (t Truck) Tooltip() string {
	return fmt.Sprintf("%s (Max Capacity: %.0f kg)", t.Name, t.Capacity)
}

// Validate checks that the truck definition is sound.
func (t Truck) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("truck id must not be empty")
	}
	if t.Capacity < 0 {
		return fmt.Errorf("truck %s: capacity must not be negative", t.ID)
	}
	return nil
}
