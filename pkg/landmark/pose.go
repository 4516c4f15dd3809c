package landmark

// Body landmark indices (33-point pose topology).
const (
	Nose           = 0
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
)

// Hand landmark indices (21-point hand topology). Each finger owns four
// consecutive points starting at 1+4*finger.
const (
	Wrist        = 0
	ThumbCMC     = 1
	IndexMCP     = 5
	MiddleMCP    = 9
	RingMCP      = 13
	PinkyMCP     = 17
	FingerCount  = 5
	FingerPoints = 4
)

// FingerBase returns the index of the first landmark of finger f
// (0 thumb, 1 index, 2 middle, 3 ring, 4 pinky).
func FingerBase(f int) int {
	return 1 + FingerPoints*f
}
