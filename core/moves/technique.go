package moves

import "github.com/huangsam/slipstat/schema"

// Technique names.
const (
	Wavedash = "wavedash"
	LCancel  = "l_cancel"
	Shine    = "shine"
	Laser    = "laser"
)

// Constants used by the technique rules.
const (
	StateAirDodge    uint16 = 39
	LandingLagFirst  uint16 = 40
	LandingLagLast   uint16 = 43
	ShieldButtonMask uint32 = 0x40 // L/R digital press in processed buttons
	airborneGrounded uint8  = 0
)

// Characters with technique-specific rules.
const (
	characterFox   = "Fox"
	characterFalco = "Falco"
)

// technique is a compound move detected from more than an action state lookup.
type technique struct {
	name        string
	description string
	match       func(snap schema.FrameSnapshot, character string) bool
}

var techniques = []technique{
	{
		name:        Wavedash,
		description: "air dodge state (39) on a frame whose post-frame airborne flag is grounded",
		match: func(snap schema.FrameSnapshot, _ string) bool {
			return snap.ActionState == StateAirDodge && snap.Airborne != nil && *snap.Airborne == airborneGrounded
		},
	},
	{
		name:        LCancel,
		description: "digital shield bit (0x40) held during landing lag states 40-43",
		match: func(snap schema.FrameSnapshot, _ string) bool {
			return snap.Buttons&ShieldButtonMask != 0 && snap.ActionState >= LandingLagFirst && snap.ActionState <= LandingLagLast
		},
	},
	{
		name:        Shine,
		description: "down special state (28) as Fox or Falco",
		match: func(snap schema.FrameSnapshot, character string) bool {
			return snap.ActionState == StateDownB && (character == characterFox || character == characterFalco)
		},
	},
	{
		name:        Laser,
		description: "neutral special state (25) as Falco",
		match: func(snap schema.FrameSnapshot, character string) bool {
			return snap.ActionState == StateNeutralB && character == characterFalco
		},
	},
}

// DetectTechniques returns every technique satisfied by snap. Rules are
// independent, so one frame can fire several of them.
func DetectTechniques(snap schema.FrameSnapshot, character string) []string {
	var hits []string
	for _, t := range techniques {
		if t.match(snap, character) {
			hits = append(hits, t.name)
		}
	}
	return hits
}

// Techniques describes the technique rules in evaluation order.
func Techniques() []schema.TechniqueRule {
	rules := make([]schema.TechniqueRule, len(techniques))
	for i, t := range techniques {
		rules[i] = schema.TechniqueRule{Name: t.name, Description: t.description}
	}
	return rules
}
