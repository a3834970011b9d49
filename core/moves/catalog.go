// Package moves classifies per-frame player state into named moves.
package moves

import "github.com/huangsam/slipstat/schema"

// Base move names.
const (
	Nair       = "nair"
	Fair       = "fair"
	Bair       = "bair"
	Uair       = "uair"
	Dair       = "dair"
	Jab        = "jab"
	Ftilt      = "ftilt"
	Utilt      = "utilt"
	Dtilt      = "dtilt"
	Fsmash     = "fsmash"
	Usmash     = "usmash"
	Dsmash     = "dsmash"
	NeutralB   = "neutral_b"
	SideB      = "side_b"
	UpB        = "up_b"
	DownB      = "down_b"
	Grab       = "grab"
	DashAttack = "dash_attack"
	Jump       = "jump"
	DoubleJump = "double_jump"
)

// Action state codes referenced by the technique rules.
const (
	StateNeutralB uint16 = 25
	StateDownB    uint16 = 28
)

// catalog is indexed by action state minus catalogBase.
const catalogBase = 13

var catalog = [...]string{
	Nair, Fair, Bair, Uair, Dair,
	Jab, Ftilt, Utilt, Dtilt,
	Fsmash, Usmash, Dsmash,
	NeutralB, SideB, UpB, DownB,
	Grab, DashAttack, Jump, DoubleJump,
}

// Lookup returns the base move for an action state code.
func Lookup(code uint16) (string, bool) {
	if code < catalogBase || int(code-catalogBase) >= len(catalog) {
		return "", false
	}
	return catalog[code-catalogBase], true
}

// Entries lists the catalog in code order.
func Entries() []schema.MoveCatalogEntry {
	entries := make([]schema.MoveCatalogEntry, len(catalog))
	for i, name := range catalog {
		entries[i] = schema.MoveCatalogEntry{Code: uint16(catalogBase + i), Name: name}
	}
	return entries
}
