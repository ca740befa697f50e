package regalloc

// Purpose is the semantic role of a register during code generation.
// General purposes live in the general register file, Vec purposes in
// the vector file.
type Purpose uint8

const (
	Invalid Purpose = iota

	// Function arguments.
	GenArgX
	GenArgY
	GenArgZ
	GenArgFog

	// Values that live across stages.
	GenColorOff
	GenDepthOff
	GenStencil
	GenSrcAlpha

	// Scratch.
	GenTemp0
	GenTemp1
	GenTemp2
	GenTemp3
	GenTemp4
	GenTemp5
	GenTempHelper

	genEnd

	VecArgColor
	VecZero
	VecTemp0
	VecTemp1
	VecTemp2
	VecTemp3
	VecResult

	vecEnd
)

var purposeNames = [...]string{
	Invalid:       "Invalid",
	GenArgX:       "GenArgX",
	GenArgY:       "GenArgY",
	GenArgZ:       "GenArgZ",
	GenArgFog:     "GenArgFog",
	GenColorOff:   "GenColorOff",
	GenDepthOff:   "GenDepthOff",
	GenStencil:    "GenStencil",
	GenSrcAlpha:   "GenSrcAlpha",
	GenTemp0:      "GenTemp0",
	GenTemp1:      "GenTemp1",
	GenTemp2:      "GenTemp2",
	GenTemp3:      "GenTemp3",
	GenTemp4:      "GenTemp4",
	GenTemp5:      "GenTemp5",
	GenTempHelper: "GenTempHelper",
	genEnd:        "Invalid",
	VecArgColor:   "VecArgColor",
	VecZero:       "VecZero",
	VecTemp0:      "VecTemp0",
	VecTemp1:      "VecTemp1",
	VecTemp2:      "VecTemp2",
	VecTemp3:      "VecTemp3",
	VecResult:     "VecResult",
}

// String returns the name of the purpose.
func (p Purpose) String() string {
	if int(p) < len(purposeNames) {
		return purposeNames[p]
	}
	return "Invalid"
}

// IsVec reports whether the purpose lives in the vector file.
func (p Purpose) IsVec() bool {
	return p > genEnd && p < vecEnd
}

// IsValid reports whether p names a real purpose.
func (p Purpose) IsValid() bool {
	return p != Invalid && p != genEnd && p < vecEnd
}
