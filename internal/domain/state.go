package domain

import "fmt"

// State is a row of the states table
type State struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities,omitempty"`
}

func (s State) String() string {
	return fmt.Sprintf("%d: %s", s.ID, s.Name)
}

// City is a row of the cities table, optionally joined with its state name
type City struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StateID   int    `json:"state_id"`
	StateName string `json:"state_name,omitempty"`
}

func (c City) String() string {
	if c.StateName != "" {
		return fmt.Sprintf("%s: (%d) %s", c.StateName, c.ID, c.Name)
	}
	return fmt.Sprintf("(%d) %s", c.ID, c.Name)
}
