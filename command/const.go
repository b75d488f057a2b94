package command

// ASCII commands understood by the vehicle firmware.
const (
	CmdPark        byte = 'X'
	CmdUnpark      byte = 'x'
	CmdStop        byte = 'S'
	CmdNeutral     byte = '5'
	CmdVisionOn    byte = 'V'
	CmdVisionOff   byte = 'v'
	CmdRight       byte = 'R'
	CmdLeft        byte = 'L'
	CmdForward     byte = 'F'
	CmdBackward    byte = 'B'
	CmdRightStickX byte = 'O'
	CmdRightStickY byte = 'P'
)

// Signed-byte opcodes.
const (
	OpL1Release int8 = 103
	OpR1Release int8 = 104

	OpSteerRight  int8 = 110
	OpSteerCenter int8 = 111
	OpSteerLeft   int8 = 112

	OpDriveReverse int8 = 120
	OpDriveStop    int8 = 121
	OpDriveForward int8 = 122
)

// CmdUnassigned is what every button without its own mapping sends.
const CmdUnassigned = CmdPark

// DeadBand is the half-width of the band around zero treated as a centered stick.
const DeadBand = 0.06

// MaxMagnitude bounds discretized axis values.
const MaxMagnitude = 100
