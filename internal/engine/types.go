package engine

// Seeds holds the seed material for a derivation.
type Seeds struct {
	Server string // ASCII; do NOT hex-decode
	Client string
}
