package id

import "github.com/google/uuid"

// Generator creates opaque IDs suitable for external references.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) NewID() string {
	return NewID()
}

func NewID() string {
	return uuid.NewString()
}
